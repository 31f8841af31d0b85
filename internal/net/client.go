package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
)

// elementSymbols are the one-letter energy symbols printed on cards.
var elementSymbols = map[string]string{
	"Colorless": "C",
	"Grass":     "G",
	"Fire":      "R",
	"Water":     "W",
	"Lightning": "L",
	"Fighting":  "F",
	"Psychic":   "P",
	"Darkness":  "D",
	"Metal":     "M",
	"Fairy":     "Y",
	"Dragon":    "N",
}

// Client is the terminal front end for one player: it renders the board and
// answers the engine's prompts from typed input.
type Client struct {
	conn net.Conn
	in   *bufio.Reader
	out  io.Writer
}

// NewClient creates a REPL client on conn reading from in and writing to out.
func NewClient(conn net.Conn, in io.Reader, out io.Writer) *Client {
	return &Client{conn: conn, in: bufio.NewReader(in), out: out}
}

// RunREPL reads server messages and handles them interactively until the
// game is over or the connection closes.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case "notify":
			c.renderEvent(msg.Event)

		case "choose_action":
			c.renderState(msg.State)
			c.renderActions(msg.Actions)
			idx := c.readChoice(len(msg.Actions))
			if err := enc.Encode(ClientMessage{Type: "action", Index: idx}); err != nil {
				return fmt.Errorf("send action: %w", err)
			}

		case "choose_index":
			c.renderOptions(msg.Prompt, msg.Options, msg.Optional)
			idx := c.readOption(len(msg.Options), msg.Optional)
			if err := enc.Encode(ClientMessage{Type: "index", Index: idx}); err != nil {
				return fmt.Errorf("send index: %w", err)
			}

		case "game_over":
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, "          GAME OVER")
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	phase := ev.Phase
	for len(phase) < 12 {
		phase += " "
	}
	fmt.Fprintf(c.out, "T%-2d %s| %s\n", ev.Turn, phase, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	w := c.out

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════╗")

	opp := sv.Opponent
	fmt.Fprintf(w, "║  OPPONENT %s  Score: %d  Hand: %d  Deck: %d  Energy: %s\n",
		opp.Name, opp.Score, opp.HandCount, opp.DeckCount, formatEnergyZone(opp.Energy))
	fmt.Fprintf(w, "║  Bench:  %s\n", formatBench(opp.Bench))
	fmt.Fprintf(w, "║  Active: %s\n", formatUnit(opp.Active))

	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")

	you := sv.You
	fmt.Fprintf(w, "║  Active: %s\n", formatUnit(you.Active))
	fmt.Fprintf(w, "║  Bench:  %s\n", formatBench(you.Bench))
	fmt.Fprintf(w, "║  YOU %s  Score: %d  Hand: %d  Deck: %d  Energy: %s\n",
		you.Name, you.Score, you.HandCount, you.DeckCount, formatEnergyZone(you.Energy))
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Turn %d | %s", sv.Turn, sv.Phase)
	if sv.IsYourTurn {
		turnInfo += " | Your turn"
	} else {
		turnInfo += " | Opponent's turn"
	}
	fmt.Fprintln(w, turnInfo)

	if you.Active != nil {
		for _, atk := range you.Active.Attacks {
			mark := " "
			if atk.Usable {
				mark = "*"
			}
			fmt.Fprintf(w, " %s %s [%s] %s\n", mark, atk.Name, formatCost(atk.Cost), atk.Damage)
		}
	}

	if len(you.Hand) > 0 {
		fmt.Fprintf(w, "\nHand: ")
		for i, cv := range you.Hand {
			fmt.Fprintf(w, "[%d] %s  ", i+1, cv.Name)
		}
		fmt.Fprintln(w)
	}
}

func symbol(element string) string {
	if s, ok := elementSymbols[element]; ok {
		return s
	}
	return "?"
}

func formatCost(cost []string) string {
	var b strings.Builder
	for _, e := range cost {
		b.WriteString(symbol(e))
	}
	return b.String()
}

func formatEnergyZone(ev EnergyView) string {
	cur, next := "-", "-"
	if ev.Current != "" {
		cur = symbol(ev.Current)
	}
	if ev.Next != "" {
		next = symbol(ev.Next)
	}
	return cur + " (next " + next + ")"
}

func formatUnit(uv *UnitView) string {
	if uv == nil {
		return "[ ]"
	}
	s := fmt.Sprintf("[%s %d/%d", uv.Name, uv.RemainingHP, uv.HP)
	if len(uv.Energy) > 0 {
		s += " "
		for _, e := range elementOrder {
			s += strings.Repeat(symbol(e), uv.Energy[e])
		}
	}
	if uv.Tool != "" {
		s += " +" + uv.Tool
	}
	if uv.Status != "" {
		s += " " + uv.Status
	}
	return s + "]"
}

// elementOrder fixes the energy print order.
var elementOrder = []string{
	"Colorless", "Grass", "Fire", "Water", "Lightning", "Fighting",
	"Psychic", "Darkness", "Metal", "Fairy", "Dragon",
}

func formatBench(bench []UnitView) string {
	if len(bench) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(bench))
	for i := range bench {
		parts[i] = formatUnit(&bench[i])
	}
	return strings.Join(parts, " ")
}

func (c *Client) renderActions(actions []ActionView) {
	fmt.Fprintln(c.out, "\nActions:")
	for _, a := range actions {
		fmt.Fprintf(c.out, "  %d) %s\n", a.Index+1, a.Desc)
	}
}

func (c *Client) renderOptions(prompt string, options []OptionView, optional bool) {
	fmt.Fprintf(c.out, "\n%s\n", prompt)
	for _, o := range options {
		fmt.Fprintf(c.out, "  %d) %s\n", o.Index+1, o.Desc)
	}
	if optional {
		fmt.Fprintln(c.out, "  (blank to skip)")
	}
}

// readLine returns the next trimmed input line. ok is false at end of input.
func (c *Client) readLine() (line string, ok bool) {
	fmt.Fprint(c.out, "> ")
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (c *Client) readChoice(count int) int {
	for {
		line, ok := c.readLine()
		if !ok {
			return count - 1 // input closed: end the turn
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > count {
			fmt.Fprintf(c.out, "Enter a number between 1 and %d\n", count)
			continue
		}
		return n - 1 // convert to 0-indexed
	}
}

func (c *Client) readOption(count int, optional bool) int {
	for {
		line, ok := c.readLine()
		if !ok {
			if optional {
				return -1
			}
			return 0
		}
		if optional && (line == "" || line == "-1") {
			return -1
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > count {
			fmt.Fprintf(c.out, "Enter a number between 1 and %d\n", count)
			continue
		}
		return n - 1
	}
}
