package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/lock"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/store"
	"fintrack/internal/testutil"
)

func actorOf(u *models.User) models.Actor {
	return models.Actor{UserID: u.ID, IsAdmin: u.IsAdmin}
}

func TestCreateWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults_to_cash", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		user := testutil.CreateTestUser(t, db)

		wallet, err := svc.CreateWallet(ctx, actorOf(user), CreateWalletInput{Balance: decimal.RequireFromString("10.50")})
		testutil.AssertNoError(t, err)
		if wallet.Type != models.WalletTypeCash {
			t.Errorf("expected Cash wallet, got %s", wallet.Type)
		}
		if wallet.UserID != user.ID {
			t.Errorf("expected owner %s, got %s", user.ID, wallet.UserID)
		}
		testutil.AssertDecimal(t, wallet.Balance, "10.50")
	})

	t.Run("user_id_ignored_for_non_admin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		wallet, err := svc.CreateWallet(ctx, actorOf(user), CreateWalletInput{UserID: other.ID, Type: models.WalletTypeCard})
		testutil.AssertNoError(t, err)
		if wallet.UserID != user.ID {
			t.Errorf("expected wallet to belong to caller, got %s", wallet.UserID)
		}
	})

	t.Run("admin_opens_for_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		admin := testutil.CreateTestAdmin(t, db)
		user := testutil.CreateTestUser(t, db)

		wallet, err := svc.CreateWallet(ctx, actorOf(admin), CreateWalletInput{UserID: user.ID, Type: models.WalletTypeBank})
		testutil.AssertNoError(t, err)
		if wallet.UserID != user.ID {
			t.Errorf("expected owner %s, got %s", user.ID, wallet.UserID)
		}
	})

	t.Run("admin_unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		admin := testutil.CreateTestAdmin(t, db)

		_, err := svc.CreateWallet(ctx, actorOf(admin), CreateWalletInput{UserID: "0190c7a8-0000-7000-8000-000000000000", Type: models.WalletTypeBank})
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateWallet(ctx, actorOf(user), CreateWalletInput{Type: "Crypto"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateWallet(ctx, actorOf(user), CreateWalletInput{Balance: decimal.NewFromInt(-1)})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("balance_too_large", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateWallet(ctx, actorOf(user), CreateWalletInput{Balance: decimal.NewFromInt(100000000)})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListWallets(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewWalletService(store.NewTransactor(db), nil)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	admin := testutil.CreateTestAdmin(t, db)
	testutil.CreateTestWallet(t, db, user.ID, models.WalletTypeCard, "1")
	testutil.CreateTestWallet(t, db, user.ID, models.WalletTypeCash, "2")
	testutil.CreateTestWallet(t, db, other.ID, models.WalletTypeBank, "3")

	t.Run("own_only", func(t *testing.T) {
		page, err := svc.ListWallets(ctx, actorOf(user), pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 wallets, got %d", page.TotalItems)
		}
		for _, w := range page.Data {
			if w.UserID != user.ID {
				t.Errorf("unexpected wallet of user %s", w.UserID)
			}
		}
	})

	t.Run("admin_sees_all", func(t *testing.T) {
		page, err := svc.ListWallets(ctx, actorOf(admin), pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 {
			t.Errorf("expected 3 wallets, got %d", page.TotalItems)
		}
	})
}

func TestGetWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		user := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, user.ID, models.WalletTypeCard, "42.00")

		got, err := svc.GetWallet(ctx, actorOf(user), wallet.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, got.Balance, "42")
	})

	t.Run("other_user_hidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, other.ID, models.WalletTypeCard, "1")

		_, err := svc.GetWallet(ctx, actorOf(user), wallet.ID)
		testutil.AssertAppError(t, err, "WALLET_NOT_FOUND")
	})

	t.Run("admin_reads_any", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		admin := testutil.CreateTestAdmin(t, db)
		other := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, other.ID, models.WalletTypeCard, "1")

		_, err := svc.GetWallet(ctx, actorOf(admin), wallet.ID)
		testutil.AssertNoError(t, err)
	})
}

func TestUpdateWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("owner_changes_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		user := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, user.ID, models.WalletTypeCash, "5")

		typ := models.WalletTypeBank
		got, err := svc.UpdateWallet(ctx, actorOf(user), wallet.ID, store.WalletUpdate{Type: &typ})
		testutil.AssertNoError(t, err)
		if got.Type != models.WalletTypeBank {
			t.Errorf("expected Bank, got %s", got.Type)
		}
		testutil.AssertDecimal(t, got.Balance, "5")
	})

	t.Run("owner_cannot_set_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		user := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, user.ID, models.WalletTypeCard, "5")

		balance := decimal.NewFromInt(1000)
		_, err := svc.UpdateWallet(ctx, actorOf(user), wallet.ID, store.WalletUpdate{Balance: &balance})
		testutil.AssertAppError(t, err, "FORBIDDEN")
		testutil.AssertDecimal(t, testutil.ReloadWallet(t, db, wallet.ID).Balance, "5")
	})

	t.Run("admin_sets_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		admin := testutil.CreateTestAdmin(t, db)
		user := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, user.ID, models.WalletTypeCard, "5")

		balance := decimal.RequireFromString("250.75")
		got, err := svc.UpdateWallet(ctx, actorOf(admin), wallet.ID, store.WalletUpdate{Balance: &balance})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, got.Balance, "250.75")
	})

	t.Run("admin_negative_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		admin := testutil.CreateTestAdmin(t, db)
		wallet := testutil.CreateTestWallet(t, db, admin.ID, models.WalletTypeCard, "5")

		balance := decimal.NewFromInt(-5)
		_, err := svc.UpdateWallet(ctx, actorOf(admin), wallet.ID, store.WalletUpdate{Balance: &balance})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("wallet_busy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		locker := lock.NewLocal()
		svc := NewWalletService(store.NewTransactor(db), locker)
		admin := testutil.CreateTestAdmin(t, db)
		wallet := testutil.CreateTestWallet(t, db, admin.ID, models.WalletTypeCard, "5")

		release, err := locker.Acquire(ctx, wallet.ID)
		testutil.AssertNoError(t, err)
		defer release()

		short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		balance := decimal.NewFromInt(7)
		_, err = svc.UpdateWallet(short, actorOf(admin), wallet.ID, store.WalletUpdate{Balance: &balance})
		testutil.AssertAppError(t, err, "WALLET_BUSY")
	})
}

func TestDeleteWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("without_history", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		user := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, user.ID, models.WalletTypeCard, "0")

		err := svc.DeleteWallet(ctx, actorOf(user), wallet.ID)
		testutil.AssertNoError(t, err)
		if n := testutil.CountRows(t, db, &models.Wallet{}); n != 0 {
			t.Errorf("expected wallet to be deleted, %d rows left", n)
		}
	})

	t.Run("with_history", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		user := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, user.ID, models.WalletTypeCard, "0")
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
		testutil.CreateTestTransaction(t, db, wallet.ID, category.ID, "1")

		err := svc.DeleteWallet(ctx, actorOf(user), wallet.ID)
		testutil.AssertAppError(t, err, "WALLET_HAS_HISTORY")
	})

	t.Run("other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(store.NewTransactor(db), nil)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, other.ID, models.WalletTypeCard, "0")

		err := svc.DeleteWallet(ctx, actorOf(user), wallet.ID)
		testutil.AssertAppError(t, err, "WALLET_NOT_FOUND")
	})
}
