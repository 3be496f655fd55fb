// Package device holds the engine's hardware-facing collaborators. All
// of them sit behind small interfaces so the engine can be tested with
// fakes.
package device

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shiftwatch/internal/geo"

	"go.uber.org/zap"
)

// Locator samples the device position. Authorized reflects whether the
// position source may be used at all; callers check it before sampling.
type Locator interface {
	Authorized(ctx context.Context) bool
	Current(ctx context.Context) (geo.Point, error)
}

// Notifier delivers user-facing notifications. Alert is the insistent
// variant that stays up for the given duration.
type Notifier interface {
	Notify(title, message string)
	Alert(message string, d time.Duration)
}

// Prompter asks the user a yes/no question and blocks for the answer.
type Prompter interface {
	Confirm(question string) bool
}

// HTTPLocator samples position from an external provider that answers
// GET <baseURL>/position with {"latitude": .., "longitude": ..}.
type HTTPLocator struct {
	baseURL string
	http    *http.Client
}

func NewHTTPLocator(baseURL string) *HTTPLocator {
	return &HTTPLocator{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (l *HTTPLocator) Authorized(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/status", nil)
	if err != nil {
		return false
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (l *HTTPLocator) Current(ctx context.Context) (geo.Point, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/position", nil)
	if err != nil {
		return geo.Point{}, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return geo.Point{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return geo.Point{}, fmt.Errorf("position provider returned %d", resp.StatusCode)
	}

	var pos struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pos); err != nil {
		return geo.Point{}, err
	}
	return geo.Point{Latitude: pos.Latitude, Longitude: pos.Longitude}, nil
}

// LogNotifier writes notifications to the structured log. The agent has
// no display surface of its own; the log is its notification channel.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(title, message string) {
	n.log.Info("notification", zap.String("title", title), zap.String("message", message))
}

func (n *LogNotifier) Alert(message string, d time.Duration) {
	n.log.Warn("alert", zap.String("message", message), zap.Duration("duration", d))
}

// TerminalPrompter reads a y/n answer from the given reader, stdin in
// production. Anything other than y/yes counts as no.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

func (p *TerminalPrompter) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [y/n]: ", question)
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
