package client

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/earthkeeper/internal/draw"
	"github.com/tomz197/earthkeeper/internal/game"
	"github.com/tomz197/earthkeeper/internal/loop/config"
	"github.com/tomz197/earthkeeper/internal/loop/server"
	"github.com/tomz197/earthkeeper/internal/object"
)

var introLines = []string{
	"The year is 2089.",
	"Oceans choke on plastic. The sky has turned grey with smog.",
	"Junk rains from the clouds over the last green valley.",
	"One keeper still stands guard, a basket in hand and seeds in the launcher.",
	"Catch the junk. Shoot it down with seeds. Keep the valley alive.",
	"Beware the toxic waste, and the Smog Titan that rules the sky.",
}

const projectURL = "https://github.com/tomz197/earthkeeper"

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen, overlay or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	phase := game.PhasePlaying
	if c.state.Game != nil {
		phase = c.state.Game.Phase
	}
	if c.state.Screen != c.state.prevScreen || phase != c.state.prevPhase ||
		c.state.isInactive != c.state.wasInactive || c.state.tooSmall != c.state.wasTooSmall {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevScreen = c.state.Screen
		c.state.prevPhase = phase
		c.state.wasInactive = c.state.isInactive
		c.state.wasTooSmall = c.state.tooSmall
	}

	c.canvas.Clear()
	snapshot := c.server.GetSnapshot()

	switch {
	case c.state.Screen == ScreenShutdown:
		c.drawShutdownScreen()
	case c.state.tooSmall:
		c.drawTooSmall()
	case c.state.isInactive:
		c.drawInactivityScreen()
	default:
		switch c.state.Screen {
		case ScreenIntro:
			c.drawIntro()
		case ScreenMenu:
			c.drawMenu(snapshot)
		case ScreenPlaying:
			c.drawPlaying(snapshot)
		case ScreenOver:
			c.drawOver(snapshot)
		}
	}

	// Render canvas to terminal
	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}

	// Draw border when terminal exceeds max render resolution
	if err := c.canvas.RenderBorder(c.chunkWriter); err != nil {
		return err
	}

	if c.state.Screen == ScreenMenu && !c.state.isInactive && !c.state.tooSmall {
		c.drawLink()
	}

	return c.chunkWriter.Flush()
}

// text writes s at a 0-based canvas cell.
func (c *Client) text(col, row int, s string, color draw.Color) {
	c.canvas.SetTextAt(col, row, s, color)
}

// center writes s horizontally centered on row.
func (c *Client) center(row int, s string, color draw.Color) {
	w := c.canvas.TerminalWidth()
	s = truncate(s, w)
	c.canvas.SetTextAt((w-utf8.RuneCountInString(s))/2, row, s, color)
}

// right writes s flush with the right edge.
func (c *Client) right(row int, s string, color draw.Color) {
	w := c.canvas.TerminalWidth()
	c.canvas.SetTextAt(w-utf8.RuneCountInString(s)-1, row, s, color)
}

func blinkOn(now time.Time) bool {
	return now.UnixMilli()/600%2 == 0
}

// box blanks a centered rectangle and frames it. Returns the first inner row.
func (c *Client) box(width, height int, color draw.Color) (col, row int) {
	w, h := c.canvas.TerminalWidth(), c.canvas.TerminalHeight()
	width = min(width, w)
	height = min(height, h)
	col = (w - width) / 2
	row = (h - height) / 2

	blank := strings.Repeat(" ", width)
	for r := row; r < row+height; r++ {
		c.text(col, r, blank, draw.ColorDefault)
	}
	bar := strings.Repeat("─", max(0, width-2))
	c.text(col, row, "┌"+bar+"┐", color)
	c.text(col, row+height-1, "└"+bar+"┘", color)
	for r := row + 1; r < row+height-1; r++ {
		c.text(col, r, "│", color)
		c.text(col+width-1, r, "│", color)
	}
	return col, row + 1
}

func (c *Client) drawTitle(row int) int {
	title := "E A R T H   K E E P E R"
	bar := strings.Repeat("═", utf8.RuneCountInString(title)+4)
	c.center(row, "╔"+bar+"╗", draw.ColorGreen)
	c.center(row+1, "║  "+title+"  ║", draw.ColorBrightGreen)
	c.center(row+2, "╚"+bar+"╝", draw.ColorGreen)
	return row + 3
}

// drawIntro draws the story crawl.
func (c *Client) drawIntro() {
	h := c.canvas.TerminalHeight()
	row := c.drawTitle(max(0, h/2-10)) + 2

	width := c.canvas.TerminalWidth() - 4
	for _, line := range introLines[:c.introLinesShown()] {
		for _, l := range wrap(line, width) {
			c.center(row, l, draw.ColorDefault)
			row++
		}
		row++
	}

	if blinkOn(c.now) {
		prompt := ">>  Press SPACE to skip  <<"
		if c.introLinesShown() == len(introLines) {
			prompt = ">>  Press SPACE to continue  <<"
		}
		c.center(h-2, prompt, draw.ColorYellow)
	}
}

// drawMenu draws difficulty selection, the leaderboard and the controls.
func (c *Client) drawMenu(snapshot *server.Snapshot) {
	h := c.canvas.TerminalHeight()
	row := c.drawTitle(1)
	c.center(row, "~ catch the junk, save the valley ~", draw.ColorDim)
	row += 2

	c.center(row, "Choose your difficulty", draw.ColorBold)
	row++
	tuning := game.DefaultTuning()
	if c.tuning != nil {
		tuning = *c.tuning
	}
	for i, d := range game.Difficulties {
		settings, _ := tuning.Difficulties.For(d)
		marker := "  "
		color := draw.ColorDefault
		if i == c.state.Difficulty {
			marker = "> "
			color = draw.ColorBrightGreen
		}
		line := fmt.Sprintf("%s%d. %-8s %-6s survive %s", marker, i+1, d.Label(), d, formatClock(settings.WinDuration))
		c.center(row, line, color)
		row++
	}
	row++

	c.center(row, "Top keepers", draw.ColorBold)
	row++
	shown := min(len(snapshot.TopScores), 5, max(0, h-row-7))
	if shown == 0 {
		c.center(row, "no scores yet, be the first", draw.ColorDim)
		row++
	}
	for i := 0; i < shown; i++ {
		r := snapshot.TopScores[i]
		c.center(row, fmt.Sprintf("%2d. %-16s %8s  %s", i+1, r.Nickname, formatScore(r.Score), r.Difficulty), draw.ColorDefault)
		row++
	}
	row++

	c.center(row, "A D / < >  move    ESC  pause    Q  quit", draw.ColorDim)
	row += 2
	if blinkOn(c.now) {
		c.center(row, ">>  Press SPACE to start  <<", draw.ColorYellow)
	}

	c.text(1, h-1, fmt.Sprintf("Players online: %-4d", snapshot.Players), draw.ColorDim)
}

// drawLink writes the project link as an OSC 8 hyperlink. It bypasses the
// canvas, so the cells are marked dirty for the next frame.
func (c *Client) drawLink() {
	w, h := c.canvas.TerminalWidth(), c.canvas.TerminalHeight()
	label := "github.com/tomz197/earthkeeper"
	if len(label)+24 > w {
		return
	}
	col := w - len(label) - 1
	c.chunkWriter.WriteColorAt(col, h, draw.ColorDim, fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", projectURL, label))
	c.canvas.MarkTextDirty(col, h, len(label))
}

// drawPlaying draws the field, the HUD and the pause or quiz overlay.
func (c *Client) drawPlaying(snapshot *server.Snapshot) {
	st := c.state.Game
	ctx := object.DrawContext{Canvas: c.canvas, Now: st.Elapsed}

	c.drawGround()
	for _, it := range st.Items {
		it.Draw(ctx)
	}
	for _, pu := range st.PowerUps {
		pu.Draw(ctx)
	}
	for _, p := range st.Projectiles {
		p.Draw(ctx)
	}
	st.Player.Draw(ctx)
	for _, p := range c.state.Particles {
		p.Draw(ctx)
	}
	for _, p := range c.state.Popups {
		p.Draw(ctx)
	}

	c.drawHUD(snapshot)

	if c.state.Banner != "" {
		c.center(c.canvas.TerminalHeight()/3, c.state.Banner, draw.ColorBrightGreen)
	}

	switch st.Phase {
	case game.PhasePaused:
		c.drawPause()
	case game.PhaseQuiz:
		c.drawQuiz()
	}
}

// drawGround draws the valley floor under the basket.
func (c *Client) drawGround() {
	y := object.PlayerY + 4
	c.canvas.DrawLine(draw.Point{X: 0, Y: y}, draw.Point{X: object.FieldWidth, Y: y}, draw.ColorGreen)
}

// drawHUD draws score, combo, level, time, health and power-up.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawHUD(snapshot *server.Snapshot) {
	st := c.state.Game
	w := c.canvas.TerminalWidth()

	c.text(1, 0, fmt.Sprintf("Score %-9s", formatScore(st.Score)), draw.ColorBold)
	c.right(0, fmt.Sprintf("%6s", formatClock(st.Remaining())), draw.ColorBold)

	level := fmt.Sprintf("Lv %d %s", st.Level, st.LevelName())
	if st.LevelUpTimer > 0 {
		c.center(0, level, draw.ColorBrightGreen)
	} else {
		c.center(0, level, draw.ColorDefault)
	}

	hpColor := draw.ColorGreen
	switch {
	case c.state.HitFlash > 0:
		hpColor = draw.ColorBrightRed
	case st.Health <= 30:
		hpColor = draw.ColorRed
	}
	barWidth := max(5, min(20, w/4))
	c.text(1, 1, fmt.Sprintf("HP %s %3d", draw.Bar(st.Health, game.MaxHealth, barWidth), st.Health), hpColor)

	if st.Combo > 0 {
		combo := fmt.Sprintf("combo %d x%d", st.Combo, game.ComboMultiplier(st.Combo))
		c.center(1, combo, draw.ColorYellow)
	}

	if st.PowerUp != object.PowerUpNone {
		r, color := st.PowerUp.Glyph()
		secs := int(st.PowerUpTimer.Seconds()) + 1
		c.right(1, fmt.Sprintf("[%c] %s %ds", r, st.PowerUp, secs), color)
	} else if n := snapshot.PlayingCount(); n > 1 {
		c.right(1, fmt.Sprintf("%d keepers playing", n), draw.ColorDim)
	}
}

func (c *Client) drawPause() {
	_, row := c.box(34, 9, draw.ColorCyan)
	c.center(row+1, "PAUSED", draw.ColorBold)
	c.center(row+3, "ESC / SPACE  resume", draw.ColorDefault)
	c.center(row+4, "X  exit to menu", draw.ColorDefault)
	c.center(row+5, "Q  quit", draw.ColorDefault)
}

func (c *Client) drawQuiz() {
	q := c.state.Game.Quiz
	if q == nil {
		return
	}
	w := c.canvas.TerminalWidth()
	inner := min(w-4, 60)

	prompt := wrap(q.Prompt, inner-2)
	var choices [][]string
	lines := len(prompt)
	for i, ch := range q.Choices {
		wrapped := wrap(fmt.Sprintf("%d) %s", i+1, ch), inner-2)
		choices = append(choices, wrapped)
		lines += len(wrapped)
	}

	_, row := c.box(inner+2, lines+9, draw.ColorBrightRed)
	c.center(row, "THE SMOG TITAN BLOCKS THE SKY", draw.ColorBrightRed)
	c.center(row+1, "Answer to drive it back", draw.ColorDim)
	row += 3
	for _, l := range prompt {
		c.center(row, l, draw.ColorBold)
		row++
	}
	row++
	for _, wrapped := range choices {
		for _, l := range wrapped {
			c.center(row, l, draw.ColorDefault)
			row++
		}
	}
	c.center(row+1, "press 1, 2 or 3", draw.ColorYellow)
}

// drawOver draws the result and the leaderboard.
func (c *Client) drawOver(snapshot *server.Snapshot) {
	res := c.state.Result
	h := c.canvas.TerminalHeight()
	row := max(1, h/2-12)

	if res.Won {
		c.center(row, "* THE VALLEY IS SAFE *", draw.ColorBrightGreen)
	} else {
		c.center(row, "THE SMOG WINS THIS TIME", draw.ColorBrightRed)
	}
	row += 2

	c.center(row, fmt.Sprintf("Score %s", formatScore(res.Score)), draw.ColorBold)
	row++
	c.center(row, fmt.Sprintf("Level %d  %s", res.Level, res.LevelName), draw.ColorDefault)
	row++
	if next := game.NextThreshold(res.Level); next > 0 {
		c.center(row, fmt.Sprintf("%s points to %s", formatScore(next-res.Score), game.LevelName(res.Level+1)), draw.ColorDim)
		row++
	}
	c.center(row, fmt.Sprintf("Caught %d   Shot %d   Best combo %d   Time %s",
		res.Collected, res.Destroyed, res.MaxCombo, formatClock(res.Time)), draw.ColorDefault)
	row += 2

	switch c.state.Save {
	case SavePending:
		c.center(row, "saving score...", draw.ColorDim)
	case SaveDone:
		if c.state.Rank > 0 {
			c.center(row, fmt.Sprintf("You placed #%d on the leaderboard!", c.state.Rank), draw.ColorYellow)
		} else {
			c.center(row, "Score saved.", draw.ColorDim)
		}
	case SaveFailed:
		c.center(row, "Could not save your score.", draw.ColorRed)
	}
	row += 2

	c.center(row, "Leaderboard", draw.ColorBold)
	row++
	shown := min(len(snapshot.TopScores), max(0, h-row-3))
	for i := 0; i < shown; i++ {
		r := snapshot.TopScores[i]
		color := draw.ColorDefault
		if c.state.Rank == i+1 {
			color = draw.ColorYellow
		}
		c.center(row, fmt.Sprintf("%2d. %-16s %8s  Lv %-2d %s", i+1, r.Nickname, formatScore(r.Score), r.Level, r.Difficulty), color)
		row++
	}

	if blinkOn(c.now) {
		c.center(h-2, ">>  Press SPACE for the menu  <<", draw.ColorYellow)
	}
}

// drawTooSmall asks for a bigger terminal.
func (c *Client) drawTooSmall() {
	mid := c.canvas.TerminalHeight() / 2
	width := c.canvas.TerminalWidth() - 2
	c.center(mid-1, "Terminal too small", draw.ColorBold)
	for i, l := range wrap(fmt.Sprintf("Resize to at least %dx%d to keep playing.", config.MinTermWidth, config.MinTermHeight), width) {
		c.center(mid+1+i, l, draw.ColorDefault)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen() {
	mid := c.canvas.TerminalHeight() / 2
	c.center(mid-2, "INACTIVITY WARNING", draw.ColorBold)

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	for i, l := range wrap(msg, c.canvas.TerminalWidth()-4) {
		c.center(mid+i, l, draw.ColorDefault)
	}
	c.center(mid+3, "Press any key to continue", draw.ColorDim)
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen() {
	mid := c.canvas.TerminalHeight() / 2
	c.center(mid-3, "SERVER SHUTTING DOWN", draw.ColorBold)
	c.center(mid-1, "The server is restarting for maintenance.", draw.ColorDefault)
	c.center(mid, "Please reconnect in a moment.", draw.ColorDefault)

	remaining := int(c.state.shutdownTimer) + 1
	c.center(mid+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining), draw.ColorDefault)
	c.center(mid+4, "Press Q to disconnect now", draw.ColorDim)
}
