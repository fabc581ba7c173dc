package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultCatalog(t *testing.T) {
	s, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if len(s.Items) != 5 {
		t.Fatalf("items = %d, want 5", len(s.Items))
	}

	want := map[string]struct {
		stock int
		price int64
	}{
		"b1": {5, 100}, "b2": {3, 200}, "b3": {2, 500}, "b4": {2, 750}, "b5": {1, 1000},
	}
	for _, it := range s.Items {
		w, ok := want[it.ID]
		if !ok {
			t.Errorf("unexpected item %s", it.ID)
			continue
		}
		if it.Stock != w.stock || !it.Price.Equal(decimal.NewFromInt(w.price)) {
			t.Errorf("%s: stock=%d price=%s", it.ID, it.Stock, it.Price)
		}
	}

	if len(s.Users) != 1 {
		t.Fatalf("users = %d, want 1", len(s.Users))
	}
	admin := s.Users[0]
	if admin.Username != "SammySelling" || !admin.IsAdmin || !admin.Matches("Elliot1993") {
		t.Fatalf("unexpected admin %+v", admin)
	}
	if admin.DisplayName != "Sammy (Owner)" {
		t.Errorf("display = %q", admin.DisplayName)
	}
	if len(s.Chats) != 0 || s.Orders == nil {
		t.Errorf("expected empty chats and orders")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	doc := "items:\n  - id: x1\n    name: Test\n    stock: 1\n    price: \"9.50\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(s.Items) != 1 || !s.Items[0].Price.Equal(decimal.RequireFromString("9.5")) {
		t.Fatalf("unexpected items %+v", s.Items)
	}
	if len(s.Users) != 0 {
		t.Errorf("users = %d, want 0", len(s.Users))
	}
}

func TestParseRejectsBadSeeds(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing name", "items:\n  - id: a\n    price: \"1\"\n", "required"},
		{"duplicate id", "items:\n  - {id: a, name: A, price: \"1\"}\n  - {id: a, name: B, price: \"1\"}\n", "duplicate"},
		{"negative stock", "items:\n  - {id: a, name: A, stock: -1, price: \"1\"}\n", "negative stock"},
		{"bad price", "items:\n  - {id: a, name: A, price: abc}\n", "price"},
		{"negative price", "items:\n  - {id: a, name: A, price: \"-1\"}\n", "negative price"},
		{"admin without credential", "admins:\n  - {username: root}\n", "credential"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
