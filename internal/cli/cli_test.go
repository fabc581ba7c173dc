package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/internal/cache"
	"github.com/Scriprto/steal-brainrot-shop/internal/repository"
	"github.com/Scriprto/steal-brainrot-shop/internal/service"
	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	c := cache.NewMemoryCache(0)
	t.Cleanup(func() { c.Close() })
	shop, err := service.NewShop(context.Background(),
		repository.NewMemoryStateRepository(),
		service.NewSessionStore(c, "cli-test", time.Hour),
		service.Options{Activity: repository.NewMemoryActivityRepository()},
	)
	if err != nil {
		t.Fatalf("new shop: %v", err)
	}
	return &App{Shop: shop, Version: "test"}
}

func run(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := run(t, app, "", args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func decodeData(t *testing.T, out string, v interface{}) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("decode envelope: %v\n%s", err, out)
	}
	if !env.Success {
		t.Fatalf("unsuccessful envelope: %s", out)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
}

func TestPurchaseFlow(t *testing.T) {
	app := newTestApp(t)

	mustRun(t, app, "account", "signup", "buyer1", "pw", "--display", "Buyer One")
	mustRun(t, app, "basket", "add", "b1")

	var checkout struct {
		ChatIDs []string `json:"chatIds"`
	}
	decodeData(t, mustRun(t, app, "checkout", "--robux", "-o", "json"), &checkout)
	if len(checkout.ChatIDs) != 1 {
		t.Fatalf("chat ids = %v", checkout.ChatIDs)
	}
	chatID := checkout.ChatIDs[0]

	out := mustRun(t, app, "chat", "show", chatID)
	if !strings.Contains(out, "Hi, I'd like to buy Normal Brainrot (paying with Robux).") {
		t.Fatalf("chat show:\n%s", out)
	}

	mustRun(t, app, "account", "login", "SammySelling", "Elliot1993")
	mustRun(t, app, "chat", "send", chatID, "meet", "in", "game")
	if out := mustRun(t, app, "chat", "claim", chatID); !strings.Contains(out, "[CLAIMED]") {
		t.Fatalf("claim output:\n%s", out)
	}
	if out := mustRun(t, app, "chat", "confirm", chatID); !strings.Contains(out, "[COMPLETED]") {
		t.Fatalf("confirm output:\n%s", out)
	}
	mustRun(t, app, "chat", "confirm", chatID)

	var item struct {
		Stock int `json:"stock"`
	}
	decodeData(t, mustRun(t, app, "catalog", "show", "b1", "-o", "json"), &item)
	if item.Stock != 4 {
		t.Fatalf("stock = %d, want 4", item.Stock)
	}

	out = mustRun(t, app, "admin", "activity")
	if !strings.Contains(out, "sale_confirmed") || !strings.Contains(out, "checkout") {
		t.Fatalf("activity:\n%s", out)
	}
}

func TestAdminCommandsRequireAdmin(t *testing.T) {
	app := newTestApp(t)

	_, err := run(t, app, "", "admin", "restock", "b1", "2")
	if !errors.Is(err, apierror.ErrUnauthenticated) {
		t.Fatalf("err = %v, want unauthenticated", err)
	}
	var buf bytes.Buffer
	if code := WriteError(&buf, err, true); code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if !strings.Contains(buf.String(), `"UNAUTHENTICATED"`) {
		t.Errorf("error envelope = %s", buf.String())
	}

	mustRun(t, app, "account", "signup", "amy", "pw")
	if _, err := run(t, app, "", "admin", "price", "b1", "1"); !errors.Is(err, apierror.ErrForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}

	mustRun(t, app, "account", "login", "SammySelling", "Elliot1993")
	if _, err := run(t, app, "", "admin", "price", "b1", "abc"); !errors.Is(err, apierror.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	out := mustRun(t, app, "admin", "create", "Mythic Brainrot", "--stock", "2", "--price", "2500")
	if !strings.Contains(out, "Created Mythic Brainrot (i-") {
		t.Fatalf("create output:\n%s", out)
	}
	out = mustRun(t, app, "admin", "stats")
	if !strings.Contains(out, "items: 6") {
		t.Fatalf("stats:\n%s", out)
	}
}

func TestUnknownOutputFormat(t *testing.T) {
	app := newTestApp(t)
	if _, err := run(t, app, "", "catalog", "list", "-o", "xml"); !errors.Is(err, apierror.ErrValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestBackupNotConfigured(t *testing.T) {
	app := newTestApp(t)
	if _, err := run(t, app, "", "backup", "push"); !errors.Is(err, apierror.ErrServiceUnavailable) {
		t.Fatalf("err = %v", err)
	}
}

func TestShellKeepsSession(t *testing.T) {
	app := newTestApp(t)
	script := strings.Join([]string{
		"account signup amy pw --display 'Amy A'",
		"basket add b2",
		"basket add b2",
		"# comment",
		"basket show",
		"shell",
		"chat claim c-nope",
		"exit",
	}, "\n")

	out, err := run(t, app, script, "shell")
	if err != nil {
		t.Fatalf("shell: %v\n%s", err, out)
	}
	for _, want := range []string{
		"Signed in as Amy A (amy, buyer)",
		"Total: 400 (2 units)",
		"amy> ",
		"Already in a shell.",
		"Error: admin only",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"catalog list", []string{"catalog", "list"}},
		{`chat send c-1 "hello there"`, []string{"chat", "send", "c-1", "hello there"}},
		{"admin create 'Mythic Brainrot'  --stock 2", []string{"admin", "create", "Mythic Brainrot", "--stock", "2"}},
		{`account signup amy ""`, []string{"account", "signup", "amy", ""}},
	}
	for _, tt := range tests {
		got, err := splitArgs(tt.in)
		if err != nil {
			t.Fatalf("splitArgs(%q): %v", tt.in, err)
		}
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("splitArgs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := splitArgs(`say "oops`); err == nil {
		t.Error("expected unterminated quote error")
	}
}
