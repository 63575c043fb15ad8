package sqlexecutor

import (
	"testing"

	"github.com/aras-services/corefw/pkg/query"
)

func TestRewritePositionalOrderFollowsFirstOccurrence(t *testing.T) {
	bindings := []query.Binding{
		{Key: "status", Value: "active"},
		{Key: "id", Value: 7},
	}
	stmt, args := rewrite("SELECT * FROM users WHERE status = :status AND id = :id", bindings)

	want := "SELECT * FROM users WHERE status = $1 AND id = $2"
	if stmt != want {
		t.Fatalf("stmt = %q, want %q", stmt, want)
	}
	if len(args) != 2 || args[0] != "active" || args[1] != 7 {
		t.Fatalf("args = %v, want [active 7]", args)
	}
}

func TestRewriteRepeatedPlaceholderGetsFreshPosition(t *testing.T) {
	bindings := []query.Binding{{Key: "id", Value: 1}}
	stmt, args := rewrite("SELECT * FROM t WHERE id = :id OR parent_id = :id", bindings)

	if stmt != "SELECT * FROM t WHERE id = $1 OR parent_id = $2" {
		t.Fatalf("unexpected rewrite: %q", stmt)
	}
	if len(args) != 2 || args[0] != 1 || args[1] != 1 {
		t.Fatalf("args = %v, want [1 1]", args)
	}
}

func TestRewriteUnknownPlaceholderIsLeftVerbatim(t *testing.T) {
	stmt, args := rewrite("SELECT * FROM t WHERE id = :missing", nil)
	if stmt != "SELECT * FROM t WHERE id = :missing" {
		t.Fatalf("unexpected rewrite: %q", stmt)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v, want none", args)
	}
}

func TestItoa(t *testing.T) {
	cases := map[int]string{0: "0", 1: "1", 9: "9", 10: "10", 123: "123"}
	for n, want := range cases {
		if got := itoa(n); got != want {
			t.Errorf("itoa(%d) = %q, want %q", n, got, want)
		}
	}
}
