// Package client runs one terminal session: it reads keys, drives a game run
// and draws every screen.
package client

import (
	"bufio"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/earthkeeper/internal/draw"
	"github.com/tomz197/earthkeeper/internal/game"
	"github.com/tomz197/earthkeeper/internal/input"
	"github.com/tomz197/earthkeeper/internal/loop/config"
	"github.com/tomz197/earthkeeper/internal/loop/server"
	"github.com/tomz197/earthkeeper/internal/object"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates raw text for chunked output
	reader       *bufio.Reader
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	tuning       *game.Tuning
	logger       *log.Logger
	now          time.Time // Frame start, used by the drawing code
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Tuning       *game.Tuning // nil uses game.DefaultTuning
	Logger       *log.Logger  // nil discards
	SkipIntro    bool
}

// NewClient creates a new client connected to the given hub.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	username := sanitizeUsername(opts.Username)

	handle := gs.RegisterClient(username)
	state := NewClientState()
	if opts.SkipIntro {
		state.Screen = ScreenMenu
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, object.FieldWidth, object.FieldHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       handle,
		state:        state,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		reader:       r,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     username,
		termSizeFunc: termSizeFunc,
		tuning:       opts.Tuning,
		logger:       logger.With("client", handle.ID, "username", username),
	}
}

// Run starts the client loop. Blocks until the client disconnects or the hub stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	c.logger.Info("session started")
	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.now = frameStart
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		c.processInput()

		// Check for hub events
		c.processServerEvents()

		// Handle screen resize
		c.updateScreen()

		// Handle screen state
		c.update()

		// Draw frame
		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	// Unregister from hub
	c.server.UnregisterClient(c.handle.ID)
	c.state.clearEffects()
	c.logger.Info("session ended")

	draw.ClearScreen(c.writer)
	return nil
}

// update advances the current screen by one frame.
func (c *Client) update() {
	switch c.state.Screen {
	case ScreenIntro:
		c.updateIntro()
	case ScreenMenu:
		c.updateMenu()
	case ScreenPlaying:
		c.updatePlaying()
	case ScreenOver:
		c.updateOver()
	case ScreenShutdown:
		c.updateShutdownState()
	}
	c.updateEffects()
}

// processInput reads input and handles global keys.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive session")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
		// Do not let a run continue unattended behind the warning.
		if c.state.Game != nil {
			c.state.Game.Pause()
		}
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Hub closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventScoreSaved:
				c.state.Save = SaveDone
				c.state.Rank = event.Rank
			case server.EventScoreFailed:
				c.state.Save = SaveFailed
			case server.EventServerShutdown:
				if c.state.Game != nil {
					c.state.Game.Pause()
				}
				c.state.Screen = ScreenShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)

	c.state.tooSmall = termWidth < config.MinTermWidth || termHeight < config.MinTermHeight
	if c.state.tooSmall && c.state.Game != nil {
		c.state.Game.Pause()
	}
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxFieldCols)
	renderHeight = min(termHeight, config.MaxFieldRows)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateIntro reveals the story line by line. Space or Enter shows the rest,
// a second press continues to the menu.
func (c *Client) updateIntro() {
	in := c.state.Input
	if !in.SpaceTap && !in.EnterTap && !in.EscapeTap {
		return
	}
	if c.introLinesShown() < len(introLines) {
		c.state.introSkipped = true
		return
	}
	c.state.Screen = ScreenMenu
}

// introLinesShown returns how many story lines are visible.
func (c *Client) introLinesShown() int {
	if c.state.introSkipped {
		return len(introLines)
	}
	n := int(c.now.Sub(c.state.introStart)/config.IntroLineInterval) + 1
	return min(n, len(introLines))
}

// updateMenu handles difficulty selection.
func (c *Client) updateMenu() {
	in := c.state.Input
	n := len(game.Difficulties)
	switch {
	case in.UpTap:
		c.state.Difficulty = (c.state.Difficulty + n - 1) % n
	case in.DownTap:
		c.state.Difficulty = (c.state.Difficulty + 1) % n
	case in.Number >= 1 && in.Number <= n:
		c.state.Difficulty = in.Number - 1
		c.startGame()
		return
	}
	if in.SpaceTap || in.EnterTap {
		c.startGame()
	}
}

// startGame starts a fresh run on the selected difficulty.
func (c *Client) startGame() {
	input.ResetKeyInput(c.inputStream)
	c.state.clearEffects()

	d := c.state.selectedDifficulty()
	st, err := game.NewState(game.Options{
		Difficulty: d,
		Nickname:   c.username,
		Tuning:     c.tuning,
		OnFinish:   c.onFinish,
	})
	if err != nil {
		c.logger.Error("cannot start run", "difficulty", d, "err", err)
		return
	}
	c.state.Game = st
	c.state.Save = SaveNone
	c.state.Rank = 0
	c.state.Screen = ScreenPlaying
	c.logger.Debug("run started", "difficulty", d)
	c.sendStatus(true)
}

// onFinish hands the result to the hub. Saving happens off the game loop.
func (c *Client) onFinish(r game.Result) {
	c.state.Result = r
	c.state.Save = SavePending
	c.server.SubmitResult(c.handle.ID, r)
	c.logger.Info("run finished", "score", r.Score, "level", r.Level, "won", r.Won)
}

// updatePlaying advances the run and handles pause and quiz keys.
func (c *Client) updatePlaying() {
	st := c.state.Game
	in := c.state.Input

	switch st.Phase {
	case game.PhasePlaying:
		if in.EscapeTap || in.Tapped('p') {
			st.Pause()
			return
		}
		game.Tick(st, c.state.delta, game.Input{Left: in.Left, Right: in.Right})
	case game.PhasePaused:
		switch {
		case in.EscapeTap || in.SpaceTap || in.EnterTap || in.Tapped('p'):
			st.Resume()
		case in.Tapped('x'):
			c.logger.Debug("run abandoned", "score", st.Score)
			c.state.Game = nil
			c.state.clearEffects()
			c.state.Screen = ScreenMenu
			c.sendStatus(false)
			return
		}
	case game.PhaseQuiz:
		if in.Number >= 1 && in.Number <= game.QuizChoices {
			c.answerQuiz(in.Number - 1)
		}
	}

	c.applyEvents(st.TakeEvents())

	if st.Over() {
		c.state.Screen = ScreenOver
		c.sendStatus(false)
		return
	}
	c.sendStatus(true)
}

func (c *Client) answerQuiz(choice int) {
	out, err := game.AnswerQuiz(c.state.Game, choice)
	if err != nil {
		return
	}
	if out.Correct {
		c.showBanner("Correct! The smog titan retreats.", 3*time.Second)
	} else {
		c.showBanner("Wrong! "+out.Fact, 4*time.Second)
	}
}

// updateOver waits for the player to return to the menu.
func (c *Client) updateOver() {
	in := c.state.Input
	if in.SpaceTap || in.EnterTap {
		c.state.Game = nil
		c.state.clearEffects()
		c.state.Screen = ScreenMenu
	}
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// sendStatus reports the live run to the hub, at most a few times a second.
func (c *Client) sendStatus(playing bool) {
	if playing && c.now.Sub(c.state.lastStatus) < 250*time.Millisecond {
		return
	}
	c.state.lastStatus = c.now
	status := server.Status{Playing: playing}
	if st := c.state.Game; st != nil {
		status.Score = st.Score
		status.Level = st.Level
	}
	c.server.SendStatus(c.handle.ID, status)
}

// sanitizeUsername keeps printable characters and caps the length.
func sanitizeUsername(name string) string {
	out := make([]rune, 0, config.MaxUsernameLength)
	for _, r := range name {
		if len(out) == config.MaxUsernameLength {
			break
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return config.DefaultUsername
	}
	return string(out)
}
