package cache

import (
	"net/url"
	"strconv"
	"strings"
)

// Key names one cache entry. Pattern is a Redis glob over keys. They are
// distinct types so an exact delete can never be handed a wildcard by mistake.
type Key string

type Pattern string

func (k Key) String() string     { return string(k) }
func (p Pattern) String() string { return string(p) }

// Family builds every key for one entity type. single prefixes per-record
// keys ("order_<id>"); plural prefixes relation, named and page keys
// ("orders_user_<id>", "orders_all"), so All() ("orders_*") evicts views
// without touching records. Note "slot_x" is not matched by "slots_*".
type Family struct {
	single string
	plural string
}

var (
	Users           = Family{single: "user", plural: "users"}
	Listings        = Family{single: "listing", plural: "listings"}
	Orders          = Family{single: "order", plural: "orders"}
	Payments        = Family{single: "payment", plural: "payments"}
	Notifications   = Family{single: "notification", plural: "notifications"}
	Posts           = Family{single: "post", plural: "posts"}
	Slots           = Family{single: "slot", plural: "slots"}
	Bookings        = Family{single: "booking", plural: "bookings"}
	Complaints      = Family{single: "complaint", plural: "complaints"}
	SavedVehicles   = Family{single: "saved_vehicle", plural: "saved_vehicles"}
	RepairLocations = Family{single: "repair_location", plural: "repair_locations"}
)

// Families lists every declared family; used by the admin route and the prefix tests.
func Families() []Family {
	return []Family{
		Users, Listings, Orders, Payments, Notifications, Posts,
		Slots, Bookings, Complaints, SavedVehicles, RepairLocations,
	}
}

func (f Family) Single() string { return f.single }
func (f Family) Plural() string { return f.plural }

// One is the key of a single record.
func (f Family) One(id string) Key {
	return Key(f.single + "_" + id)
}

// By is the key of the records related to relatedID, e.g. Orders.By("user", id).
func (f Family) By(relation string, relatedID string) Key {
	return Key(f.plural + "_" + relation + "_" + relatedID)
}

// Named is a parameterless view such as Slots.Named("active").
func (f Family) Named(name string) Key {
	return Key(f.plural + "_" + name)
}

// Page is the key of one (page, limit, search, filter) query result.
func (f Family) Page(page int, limit int, search string, filter string) Key {
	return Key(strings.Join([]string{
		f.plural,
		strconv.Itoa(page),
		strconv.Itoa(limit),
		escapeSegment(search),
		escapeSegment(filter),
	}, "_"))
}

// All matches every relation, named and page key of the family.
func (f Family) All() Pattern {
	return Pattern(f.plural + "_*")
}

// Exact matches only the record key for id.
func (f Family) Exact(id string) Pattern {
	return Pattern(escapeGlob(string(f.One(id))))
}

// escapeSegment keeps free-text page parameters from forging separators: "_"
// and "%" are percent-encoded along with anything QueryEscape touches, so
// distinct tuples always produce distinct keys.
func escapeSegment(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "_", "%5F")
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
