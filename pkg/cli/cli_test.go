package cli

import (
	"bytes"
	"context"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toproad/pkg/commands"
	"toproad/pkg/passcode"
	"toproad/pkg/store"
)

func parse(t *testing.T, argv ...string) *Args {
	t.Helper()
	fs := flag.NewFlagSet("toproad", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	args, err := ParseArgs(fs, argv)
	require.NoError(t, err)
	return args
}

func newEnv(t *testing.T) (commands.Env, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	out := &bytes.Buffer{}
	lock := passcode.NewManager(passcode.NewMemoryStore())
	return commands.Env{
		Trips:     store.NewTripStore(dir),
		Templates: store.NewTemplateStore(dir),
		Lock:      lock,
		Gate:      passcode.NewGate(lock),
		In:        strings.NewReader(""),
		Out:       out,
	}, out
}

func TestParseArgs(t *testing.T) {
	args := parse(t, "-add", "Lisbon", "-start", "2026-09-01", "-end", "2026-09-05", "-category", "vacation", "-hidden")

	assert.Equal(t, "Lisbon", args.AddTrip)
	assert.Equal(t, "2026-09-01", args.StartFlag)
	assert.Equal(t, "2026-09-05", args.EndFlag)
	assert.Equal(t, "vacation", args.CategoryFlag)
	assert.True(t, args.HiddenFlag)
	assert.False(t, args.List)
}

func TestParseArgs_UnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("toproad", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	_, err := ParseArgs(fs, []string{"-purge"})
	assert.Error(t, err)
}

func TestUsage(t *testing.T) {
	fs := flag.NewFlagSet("toproad", flag.ContinueOnError)
	_, err := ParseArgs(fs, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	Usage(fs, &out)

	assert.Contains(t, out.String(), "Usage: toproad [flags]")
	assert.Contains(t, out.String(), "-lock")
	assert.Contains(t, out.String(), "interactive UI")
}

func TestParseArgs_HelpUsesUsage(t *testing.T) {
	var out bytes.Buffer
	fs := flag.NewFlagSet("toproad", flag.ContinueOnError)
	fs.Usage = func() { Usage(fs, &out) }

	_, err := ParseArgs(fs, []string{"-h"})

	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, out.String(), "-reset")
}

func TestHandleCommands_NoCommand(t *testing.T) {
	env, _ := newEnv(t)

	handled, err := HandleCommands(context.Background(), env, parse(t, "-verbose"))
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestHandleCommands_AddThenList(t *testing.T) {
	env, out := newEnv(t)
	ctx := context.Background()

	handled, err := HandleCommands(ctx, env, parse(t, "-add", "Porto", "-start", "2026-09-01"))
	require.NoError(t, err)
	assert.True(t, handled)

	handled, err = HandleCommands(ctx, env, parse(t, "-list"))
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Contains(t, out.String(), "Porto")
}

func TestHandleCommands_ListWithWrongPIN(t *testing.T) {
	env, _ := newEnv(t)
	require.NoError(t, env.Lock.SetPIN("1111"))
	require.NoError(t, env.Lock.SetEnabled(true))

	handled, err := HandleCommands(context.Background(), env, parse(t, "-list", "-pin", "2222"))
	assert.True(t, handled)
	assert.ErrorIs(t, err, passcode.ErrWrongPIN)
}

func TestHandleCommands_ResetNeedsTarget(t *testing.T) {
	env, _ := newEnv(t)

	handled, err := HandleCommands(context.Background(), env, parse(t, "-reset", "all", "-yes"))
	assert.True(t, handled)
	assert.Error(t, err)
}
