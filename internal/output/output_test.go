package output_test

import (
	"bytes"
	"testing"

	"github.com/jrsteele09/go-portfolio-client/internal/output"
	"github.com/stretchr/testify/require"
)

func TestPrinter_PlainOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	p := output.NewPrinter(&out, &errOut, false)

	p.Success("Logged in as %s", "admin")
	p.Warning("cookie file unreadable")
	p.Field("Email", "admin@example.com")
	p.Field("Phone", "")

	require.Equal(t, "[OK] Logged in as admin\n  Email:         admin@example.com\n", out.String())
	require.Equal(t, "[WARN] cookie file unreadable\n", errOut.String())
	require.Equal(t, "draft", p.Badge(false, "published", "draft"))
}

func TestResolveColors_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	require.False(t, output.ResolveColors(false))
}

func TestTable_Render(t *testing.T) {
	var out bytes.Buffer
	tbl := output.NewTable(&out, "ID", "Title")
	tbl.AddRow("p1", "Portfolio site")
	require.Equal(t, 1, tbl.Len())
	require.NoError(t, tbl.Render())
	require.Contains(t, out.String(), "Portfolio site")
	require.Contains(t, out.String(), "TITLE")
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", output.Truncate("short", 10))
	require.Equal(t, "a long ...", output.Truncate("a long title here", 10))
}
