package listingrepo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"evmarket.io/marketplace-api/app/domain/common"
	domain "evmarket.io/marketplace-api/app/domain/listing"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/infrastructure/database/databasetest"
	"evmarket.io/marketplace-api/app/utils/ptr"
	"github.com/shopspring/decimal"
)

func newListing(publicID, seller, brand, title string, status domain.Status, created time.Time) *domain.Listing {
	return &domain.Listing{
		PublicID:  publicID,
		SellerID:  seller,
		Title:     title,
		Brand:     brand,
		Model:     "Base",
		Year:      2022,
		Price:     decimal.RequireFromString("25999.50"),
		Images:    []string{"front.jpg"},
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestCreateAndFind(t *testing.T) {
	repo := NewListingGormRepository(databasetest.OpenDatabase(t))
	ctx := context.Background()
	l := newListing("lst_1", "usr_1", "Tesla", "Model 3 Long Range", domain.StatusActive, time.Now().UTC())
	if err := repo.Create(ctx, l); err != nil {
		t.Fatal(err)
	}
	if l.ID == 0 {
		t.Fatal("Create did not set ID")
	}
	got, err := repo.FindByPublicID(ctx, "lst_1")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Price.Equal(l.Price) {
		t.Errorf("Price = %s, want %s", got.Price, l.Price)
	}
	if len(got.Images) != 1 || got.Images[0] != "front.jpg" {
		t.Errorf("Images = %v", got.Images)
	}
	if _, err := repo.FindByPublicID(ctx, "lst_missing"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("missing err = %v, want not found", err)
	}
}

func TestFilterAndPaginate(t *testing.T) {
	repo := NewListingGormRepository(databasetest.OpenDatabase(t))
	ctx := context.Background()
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []*domain.Listing{
		newListing("lst_a", "usr_1", "Tesla", "Model 3", domain.StatusActive, base),
		newListing("lst_b", "usr_1", "tesla", "Model Y", domain.StatusSold, base.Add(time.Hour)),
		newListing("lst_c", "usr_2", "Nissan", "Leaf e+", domain.StatusActive, base.Add(2*time.Hour)),
		newListing("lst_d", "usr_2", "VinFast", "VF 8", domain.StatusActive, base.Add(3*time.Hour)),
	}
	for _, l := range fixtures {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatal(err)
		}
	}

	active := domain.StatusActive
	tests := []struct {
		name   string
		filter domain.ListingFilter
		want   []string
	}{
		{"active newest first", domain.ListingFilter{Status: &active}, []string{"lst_d", "lst_c", "lst_a"}},
		{"brand is case insensitive", domain.ListingFilter{Brand: ptr.ToString("TESLA")}, []string{"lst_b", "lst_a"}},
		{"seller", domain.ListingFilter{SellerID: ptr.ToString("usr_2")}, []string{"lst_d", "lst_c"}},
		{"search title", domain.ListingFilter{Search: ptr.ToString("leaf")}, []string{"lst_c"}},
		{"search combined with status", domain.ListingFilter{Search: ptr.ToString("model"), Status: &active}, []string{"lst_a"}},
	}
	p := query.NewPagination(1, 10)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.FindByFilter(ctx, tt.filter, &p)
			if err != nil {
				t.Fatal(err)
			}
			got := make([]string, 0, len(items))
			for _, l := range items {
				got = append(got, l.PublicID)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			count, err := repo.Count(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if count != int64(len(tt.want)) {
				t.Errorf("Count = %d, want %d", count, len(tt.want))
			}
		})
	}

	second := query.NewPagination(2, 2)
	items, err := repo.FindByFilter(ctx, domain.ListingFilter{}, &second)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].PublicID != "lst_b" || items[1].PublicID != "lst_a" {
		t.Errorf("page 2 = %v", items)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	repo := NewListingGormRepository(databasetest.OpenDatabase(t))
	ctx := context.Background()
	l := newListing("lst_1", "usr_1", "Kia", "EV6", domain.StatusActive, time.Now().UTC())
	if err := repo.Create(ctx, l); err != nil {
		t.Fatal(err)
	}
	l.Status = domain.StatusSold
	l.Price = decimal.NewFromInt(21000)
	if err := repo.Update(ctx, l); err != nil {
		t.Fatal(err)
	}
	got, err := repo.FindByPublicID(ctx, "lst_1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusSold || !got.Price.Equal(decimal.NewFromInt(21000)) {
		t.Errorf("after update %+v", got)
	}
	if err := repo.DeleteByID(ctx, l.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.FindByPublicID(ctx, "lst_1"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("after delete err = %v", err)
	}
}
