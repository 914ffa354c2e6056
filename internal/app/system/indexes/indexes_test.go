package indexes_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/scopehub/scopehub/internal/app/system/indexes"
	"github.com/scopehub/scopehub/internal/testutil"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	err = indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesExpectedIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	cases := []struct {
		collection string
		expected   []string
	}{
		{"users", []string{"uniq_users_email"}},
		{"groups", []string{"idx_groups_members_email", "idx_groups_members_id", "idx_groups_access"}},
	}

	for _, tc := range cases {
		cur, err := db.Collection(tc.collection).Indexes().List(ctx)
		if err != nil {
			t.Fatalf("List indexes on %s failed: %v", tc.collection, err)
		}
		names := make(map[string]bool)
		for cur.Next(ctx) {
			var idx bson.M
			if err := cur.Decode(&idx); err != nil {
				continue
			}
			if name, ok := idx["name"].(string); ok {
				names[name] = true
			}
		}
		cur.Close(ctx)

		for _, name := range tc.expected {
			if !names[name] {
				t.Errorf("expected index %q to exist on %s collection", name, tc.collection)
			}
		}
	}
}
