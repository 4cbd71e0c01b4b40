package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"toproad/pkg/passcode"
	"toproad/pkg/reminders"
	"toproad/pkg/store"
)

const dateLayout = "2006-01-02"

// Env carries the stores and terminal streams the command handlers work on.
type Env struct {
	Trips     *store.TripStore
	Templates *store.TemplateStore
	Notifier  *reminders.Notifier
	Lock      *passcode.Manager
	Gate      *passcode.Gate
	In        io.Reader
	Out       io.Writer
}

func (e Env) notify(ctx context.Context, c store.TripChange) {
	if e.Notifier != nil && c.Kind != store.ChangeNone {
		e.Notifier.Apply(ctx, c)
	}
}

func (e Env) printf(format string, args ...interface{}) {
	fmt.Fprintf(e.Out, format, args...)
}

// confirm asks a y/N question on Out and reads the answer from In.
func (e Env) confirm(question string) bool {
	e.printf("%s (y/N): ", question)
	line, _ := bufio.NewReader(e.In).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// ParseDate reads a YYYY-MM-DD date in local time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}
