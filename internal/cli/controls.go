package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/datallboy/godl/internal/app"
	"github.com/datallboy/godl/internal/domain"
)

type controlVerb string

const (
	verbAdd    controlVerb = "add"
	verbPause  controlVerb = "pause"
	verbResume controlVerb = "resume"
	verbCancel controlVerb = "cancel"
	verbQuit   controlVerb = "quit"
)

type control struct {
	Verb   controlVerb
	ID     domain.TaskID
	Source string
}

var errEmptyControl = errors.New("empty command")

// parseControl reads one interactive line such as "pause 3" or "add https://...".
func parseControl(line string) (control, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return control{}, errEmptyControl
	}

	verb := controlVerb(strings.ToLower(fields[0]))
	switch verb {
	case "p":
		verb = verbPause
	case "r":
		verb = verbResume
	case "c":
		verb = verbCancel
	case "q", "exit":
		verb = verbQuit
	}

	switch verb {
	case verbQuit:
		return control{Verb: verb}, nil
	case verbAdd:
		if len(fields) < 2 {
			return control{}, fmt.Errorf("usage: add <source>")
		}
		return control{Verb: verb, Source: strings.Join(fields[1:], " ")}, nil
	case verbPause, verbResume, verbCancel:
		if len(fields) != 2 {
			return control{}, fmt.Errorf("usage: %s <id>", verb)
		}
		id, err := domain.ParseTaskID(fields[1])
		if err != nil {
			return control{}, fmt.Errorf("invalid task id %q", fields[1])
		}
		return control{Verb: verb, ID: id}, nil
	default:
		return control{}, fmt.Errorf("unknown command %q (add, pause, resume, cancel, quit)", fields[0])
	}
}

// apply routes one control to the engine. Rejections are reported, never fatal.
func (c control) apply(eng app.TaskEngine) (string, error) {
	switch c.Verb {
	case verbAdd:
		id, err := eng.AddTask(c.Source)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("added task %d", id), nil
	case verbPause:
		return fmt.Sprintf("pause requested for task %d", c.ID), eng.Pause(c.ID)
	case verbResume:
		return fmt.Sprintf("resume requested for task %d", c.ID), eng.Resume(c.ID)
	case verbCancel:
		return fmt.Sprintf("cancel requested for task %d", c.ID), eng.Cancel(c.ID)
	}
	return "", nil
}

// readControls applies stdin lines until EOF, "quit" or ctx ends, then closes quit.
func readControls(ctx context.Context, in io.Reader, errOut io.Writer, eng app.TaskEngine, quit chan<- struct{}) {
	defer close(quit)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		c, err := parseControl(scanner.Text())
		if errors.Is(err, errEmptyControl) {
			continue
		}
		if err != nil {
			fmt.Fprintln(errOut, "WARN:", err)
			continue
		}
		if c.Verb == verbQuit {
			return
		}

		msg, err := c.apply(eng)
		if err != nil {
			fmt.Fprintln(errOut, "REJECTED:", err)
			continue
		}
		fmt.Fprintln(errOut, msg)
	}
}
