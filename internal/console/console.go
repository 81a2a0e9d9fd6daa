// Package console is a text presenter: it renders the layout and reads slot
// ids and action codes (1 build, 2 discard, 3 wonder) line by line.
package console

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"duel/internal/engine"
	"duel/internal/play"
)

// Console implements play.Presenter over a reader and a writer.
type Console struct {
	in    *bufio.Scanner
	out   io.Writer
	names map[string]string
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:    bufio.NewScanner(in),
		out:   out,
		names: make(map[string]string),
	}
}

func (c *Console) ChooseSlot(view engine.PlayerViewData, slots []int) (int, error) {
	c.Render(view)
	prompt := fmt.Sprintf("%s, choose a slot %v: ", c.name(view.Current), slots)
	return c.readInt(prompt, func(n int) bool { return slices.Contains(slots, n) })
}

func (c *Console) ChooseAction(view engine.PlayerViewData, slot int, options []play.ActionOption) (play.ActionKind, error) {
	fmt.Fprintf(c.out, "slot %d:\n", slot)
	for _, o := range options {
		fmt.Fprintf(c.out, "  %d) %-8s %s\n", o.Kind, o.Kind, describeOption(o))
	}
	n, err := c.readInt("action: ", func(n int) bool {
		return n >= int(play.Build) && n <= int(play.Wonder)
	})
	return play.ActionKind(n), err
}

func describeOption(o play.ActionOption) string {
	switch {
	case !o.Available && o.Reason != "":
		return "(" + o.Reason + ")"
	case o.Kind == play.Discard:
		return fmt.Sprintf("+%d coins", o.Coins)
	case o.Kind == play.Build:
		return fmt.Sprintf("%d coins", o.Coins)
	}
	return ""
}

func (c *Console) ChooseWonder(_ engine.PlayerViewData, wonders []play.WonderOption) (int, error) {
	valid := make([]int, 0, len(wonders))
	for _, w := range wonders {
		status := fmt.Sprintf("%d coins", w.Coins)
		if !w.Available {
			status = "(" + w.Reason + ")"
		}
		fmt.Fprintf(c.out, "  %d) %-18s %s\n", w.Index, w.Name, status)
		valid = append(valid, w.Index)
	}
	return c.readInt("wonder: ", func(n int) bool { return slices.Contains(valid, n) })
}

func (c *Console) ChooseProgressToken(_ engine.PlayerViewData, tokens []engine.ProgressToken) (engine.ProgressToken, error) {
	for i, t := range tokens {
		fmt.Fprintf(c.out, "  %d) %s\n", i, t)
	}
	n, err := c.readInt("progress token: ", func(n int) bool { return n >= 0 && n < len(tokens) })
	if err != nil {
		return 0, err
	}
	return tokens[n], nil
}

func (c *Console) ChooseCard(_ engine.PlayerViewData, kind engine.EffectKind, cards []engine.Card) (int, error) {
	verb := "build from the discard pile"
	if kind == engine.EffectDestroyCard {
		verb = "destroy"
	}
	fmt.Fprintf(c.out, "choose a card to %s:\n", verb)
	for i, card := range cards {
		fmt.Fprintf(c.out, "  %d) %s (%s)\n", i, card.Name, card.Color)
	}
	return c.readInt("card: ", func(n int) bool { return n >= 0 && n < len(cards) })
}

func (c *Console) Notify(events []engine.Event) {
	for _, e := range events {
		if line := c.describe(e); line != "" {
			fmt.Fprintln(c.out, line)
		}
	}
}

func (c *Console) Rejected(err error) {
	fmt.Fprintf(c.out, "rejected: %v\n", err)
}

// readInt prompts until a line parses to an accepted integer.
func (c *Console) readInt(prompt string, ok func(int) bool) (int, error) {
	for {
		fmt.Fprint(c.out, prompt)
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		n, err := strconv.Atoi(strings.TrimSpace(c.in.Text()))
		if err != nil || !ok(n) {
			fmt.Fprintln(c.out, "not a valid choice")
			continue
		}
		return n, nil
	}
}

func (c *Console) name(id string) string {
	if n, ok := c.names[id]; ok {
		return n
	}
	return id
}

// Render prints the layout top row first, so the open row is nearest the
// prompt, followed by both players.
func (c *Console) Render(view engine.PlayerViewData) {
	for _, p := range view.Players {
		c.names[p.ID] = p.Name
	}
	fmt.Fprintf(c.out, "\n== Age %d ==  pawn %d/%d  wonders built %d  tokens %v\n",
		view.Age, view.Pawn, view.TrackMax, view.WondersBuilt, view.BoardTokens)

	var live []string
	for _, mk := range view.Markers {
		if mk.Live {
			live = append(live, fmt.Sprintf("%d:-%d", mk.Position, mk.Coins))
		}
	}
	if len(live) > 0 {
		fmt.Fprintf(c.out, "markers %s\n", strings.Join(live, " "))
	}

	rows := make(map[int][]engine.SlotView)
	top := 0
	for _, s := range view.Slots {
		rows[s.Row] = append(rows[s.Row], s)
		top = max(top, s.Row)
	}
	for r := top; r >= 0; r-- {
		cells := make([]string, 0, len(rows[r]))
		for _, s := range rows[r] {
			cells = append(cells, cell(s, view.Quotes))
		}
		pad := strings.Repeat(" ", (6-len(cells))*8)
		fmt.Fprintf(c.out, "%s%s\n", pad, strings.Join(cells, " "))
	}

	for _, p := range view.Players {
		fmt.Fprintf(c.out, "%-10s coins %-3d points %-3d %s\n", p.Name, p.Coins, p.Points, production(p))
		var ws []string
		for _, w := range p.Wonders {
			mark := ""
			if w.Built {
				mark = "*"
			}
			ws = append(ws, w.Name+mark)
		}
		fmt.Fprintf(c.out, "           wonders: %s  science: %v  tokens: %v\n", strings.Join(ws, ", "), p.Science, p.Tokens)
	}
}

func cell(s engine.SlotView, quotes map[int]engine.Quote) string {
	switch {
	case s.Empty:
		return fmt.Sprintf("[%2d %-10s]", s.Slot, "")
	case s.Card == nil:
		return fmt.Sprintf("[%2d %-10s]", s.Slot, "???")
	}
	name := s.Card.Name
	if len(name) > 10 {
		name = name[:10]
	}
	if q, ok := quotes[s.Slot]; ok && q.Buildable {
		return fmt.Sprintf("[%2d %-10s]$%d", s.Slot, name, q.Coins)
	}
	return fmt.Sprintf("[%2d %-10s]", s.Slot, name)
}

func production(p engine.PublicPlayerData) string {
	var parts []string
	for _, r := range engine.TradableResources() {
		if n := p.Production[r]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", strings.ToLower(r.String()), n))
		}
	}
	for _, w := range p.Wildcards {
		names := make([]string, len(w))
		for i, r := range w {
			names[i] = strings.ToLower(r.String())
		}
		parts = append(parts, strings.Join(names, "/"))
	}
	return strings.Join(parts, ", ")
}

func (c *Console) describe(e engine.Event) string {
	who := c.name(e.Player)
	data, _ := e.Data.(map[string]interface{})
	switch e.Type {
	case engine.EventAgeStart:
		return fmt.Sprintf("--- Age %v begins, %s starts ---", data["age"], who)
	case engine.EventCardBuilt:
		return fmt.Sprintf("%s built %v", who, data["card"])
	case engine.EventCardDiscarded:
		return fmt.Sprintf("%s discarded %v", who, data["card"])
	case engine.EventWonderBuilt:
		return fmt.Sprintf("%s built the %v", who, data["wonder"])
	case engine.EventCoins:
		return fmt.Sprintf("%s coins %+d (%v), now %v", who, data["amount"], data["source"], data["total"])
	case engine.EventMilitary:
		return fmt.Sprintf("%s pushed the pawn to %v", who, data["position"])
	case engine.EventPenalty:
		return fmt.Sprintf("%s lost %v coins to a military marker", who, data["coins"])
	case engine.EventTokenGained:
		return fmt.Sprintf("%s took the %v token", who, data["token"])
	case engine.EventCardDestroyed:
		return fmt.Sprintf("%s lost %v", who, data["card"])
	case engine.EventChoiceSkipped:
		return fmt.Sprintf("%s: nothing to choose for %v", who, data["effect"])
	case engine.EventExtraTurn:
		return fmt.Sprintf("%s plays again", who)
	case engine.EventGameOver:
		r, _ := data["result"].(*engine.Result)
		if r == nil {
			return "game over"
		}
		return c.describeResult(r)
	}
	return ""
}

func (c *Console) describeResult(r *engine.Result) string {
	var b strings.Builder
	if r.Draw() {
		b.WriteString("game over: draw\n")
	} else {
		fmt.Fprintf(&b, "game over: %s wins by %s\n", c.name(r.WinnerID), r.Victory)
	}
	for _, s := range r.Scores {
		fmt.Fprintf(&b, "  %-10s total %d (points %d, military %d, treasury %d, mathematics %d)\n",
			s.PlayerName, s.Total, s.Points, s.Military, s.Treasury, s.Mathematics)
	}
	return strings.TrimRight(b.String(), "\n")
}
