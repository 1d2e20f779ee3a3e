package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
)

func TestRunReportsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	other := filepath.Join(dir, "other.md")
	require.NoError(t, os.WriteFile(doc, []byte("a"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan []string, 8)
	done := make(chan error, 1)
	go func() {
		done <- New(WithDebounce(20*time.Millisecond)).Run(ctx, []string{doc}, func(changed []string) error {
			select {
			case changes <- changed:
			default:
			}
			return nil
		})
	}()

	// The watcher may not be registered yet, so keep writing until it reports.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	var got []string
	for got == nil {
		select {
		case got = <-changes:
		case <-tick.C:
			require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
			require.NoError(t, os.WriteFile(doc, []byte("b"), 0o644))
		case <-deadline:
			t.Fatal("no change reported")
		}
	}

	abs, err := filepath.Abs(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, got)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRunStopsOnCallbackError(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(doc, []byte("a"), 0o644))

	boom := errors.New("boom")
	done := make(chan error, 1)
	go func() {
		done <- New(WithDebounce(10*time.Millisecond)).Run(context.Background(), []string{doc}, func([]string) error {
			return boom
		})
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case err := <-done:
			assert.ErrorIs(t, err, boom)
			return
		case <-tick.C:
			require.NoError(t, os.WriteFile(doc, []byte("b"), 0o644))
		case <-deadline:
			t.Fatal("callback error not returned")
		}
	}
}

func TestRunMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "doc.md")
	err := New().Run(context.Background(), []string{missing}, func([]string) error { return nil })
	require.Error(t, err)
	assert.True(t, clherrors.IsErrorType(err, clherrors.ErrInputRead))
}
