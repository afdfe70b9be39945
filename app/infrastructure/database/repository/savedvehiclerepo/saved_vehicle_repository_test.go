package savedvehiclerepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"evmarket.io/marketplace-api/app/domain/common"
	domain "evmarket.io/marketplace-api/app/domain/savedvehicle"
	"evmarket.io/marketplace-api/app/infrastructure/database/databasetest"
)

func TestSaveFindDelete(t *testing.T) {
	repo := NewSavedVehicleGormRepository(databasetest.OpenDatabase(t))
	ctx := context.Background()
	now := time.Now().UTC()

	if err := repo.Create(ctx, &domain.SavedVehicle{PublicID: "sav_1", UserID: "usr_1", ListingID: "lst_1", CreatedAt: now}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, &domain.SavedVehicle{PublicID: "sav_2", UserID: "usr_1", ListingID: "lst_1", CreatedAt: now}); err == nil {
		t.Error("second save of the same listing inserted")
	}
	if err := repo.Create(ctx, &domain.SavedVehicle{PublicID: "sav_3", UserID: "usr_1", ListingID: "lst_2", CreatedAt: now.Add(time.Second)}); err != nil {
		t.Fatal(err)
	}

	items, err := repo.FindByUser(ctx, "usr_1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ListingID != "lst_2" {
		t.Errorf("FindByUser = %+v, want newest first", items)
	}

	removed, err := repo.Delete(ctx, "usr_1", "lst_1")
	if err != nil || !removed {
		t.Fatalf("Delete = %v, %v", removed, err)
	}
	removed, err = repo.Delete(ctx, "usr_1", "lst_1")
	if err != nil || removed {
		t.Errorf("second Delete = %v, %v", removed, err)
	}
	if _, err := repo.Find(ctx, "usr_1", "lst_1"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Find after delete err = %v", err)
	}
}
