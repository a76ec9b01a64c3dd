package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/datallboy/godl/internal/domain"
	"github.com/datallboy/godl/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseControl(t *testing.T) {
	cases := []struct {
		line string
		want control
	}{
		{"pause 3", control{Verb: verbPause, ID: 3}},
		{"P 3", control{Verb: verbPause, ID: 3}},
		{"r 12", control{Verb: verbResume, ID: 12}},
		{"cancel 1", control{Verb: verbCancel, ID: 1}},
		{"  add  http://example.com/a b  ", control{Verb: verbAdd, Source: "http://example.com/a b"}},
		{"q", control{Verb: verbQuit}},
		{"exit", control{Verb: verbQuit}},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			got, err := parseControl(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := parseControl("   ")
	assert.ErrorIs(t, err, errEmptyControl)

	for _, bad := range []string{"pause", "pause x", "pause 0", "resume 1 2", "add", "jump 1"} {
		_, err := parseControl(bad)
		assert.Error(t, err, bad)
	}
}

func TestReadControls(t *testing.T) {
	eng := engine.New(engine.Options{Steps: 2, Transfer: engine.InstantTransfer})
	t.Cleanup(func() { _ = eng.Shutdown(context.Background()) })

	in := strings.NewReader("add a\n\npause 9\nbogus\nquit\nadd b\n")
	var errOut bytes.Buffer
	quit := make(chan struct{})

	go readControls(context.Background(), in, &errOut, eng, quit)

	select {
	case <-quit:
	case <-time.After(2 * time.Second):
		t.Fatal("readControls did not stop at quit")
	}

	snaps := eng.Snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, "a", snaps[0].Source)

	out := errOut.String()
	assert.Contains(t, out, "added task 1")
	assert.Contains(t, out, "REJECTED: task not found")
	assert.Contains(t, out, `WARN: unknown command "bogus"`)
}

func TestControlApplyReportsRejection(t *testing.T) {
	eng := engine.New(engine.Options{Steps: 2, Transfer: engine.InstantTransfer})
	t.Cleanup(func() { _ = eng.Shutdown(context.Background()) })

	id, err := eng.AddTask("a")
	require.NoError(t, err)
	done, _ := eng.Done(id)
	<-done

	_, err = control{Verb: verbResume, ID: id}.apply(eng)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}
