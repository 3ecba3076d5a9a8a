package session

import "github.com/iffykid/Valentines2026/internal/confetti"

// Op names a render instruction for the presentation surface.
type Op string

const (
	OpDiagnostic   Op = "diagnostic"
	OpHideGate     Op = "hide_gate"
	OpGateError    Op = "gate_error"
	OpGateShake    Op = "gate_shake"
	OpRenderTiles  Op = "render_tiles"
	OpOpenModal    Op = "open_modal"
	OpSelectOption Op = "select_option"
	OpOptionShake  Op = "option_shake"
	OpCloseModal   Op = "close_modal"
	OpTileDone     Op = "tile_done"
	OpSetProgress  Op = "set_progress"
	OpShowReveal   Op = "show_reveal"
	OpShowToast    Op = "show_toast"
	OpHideToast    Op = "hide_toast"
	OpHideDecline  Op = "hide_decline"
	OpNavigate     Op = "navigate"
	OpResizeCanvas Op = "resize_canvas"
	OpFrame        Op = "frame"
)

// Tile describes one gallery entry.
type Tile struct {
	ID      string `json:"id"`
	Image   string `json:"image"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
	Done    bool   `json:"done,omitempty"`
}

// Command is one render instruction. Only the fields relevant to Op are set.
type Command struct {
	Op       Op              `json:"op"`
	Message  string          `json:"message,omitempty"`
	Tiles    []Tile          `json:"tiles,omitempty"`
	ID       string          `json:"id,omitempty"`
	Question string          `json:"question,omitempty"`
	Options  []string        `json:"options,omitempty"`
	Index    int             `json:"index"`
	On       bool            `json:"on,omitempty"`
	Value    float64         `json:"value,omitempty"`
	Percent  int             `json:"percent,omitempty"`
	URL      string          `json:"url,omitempty"`
	Width    float64         `json:"width,omitempty"`
	Height   float64         `json:"height,omitempty"`
	Frame    *confetti.Frame `json:"frame,omitempty"`
}

// Surface receives render commands. Send is called from the session loop
// and must not block for long.
type Surface interface {
	Send(cmd Command)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(Command)

func (f SurfaceFunc) Send(cmd Command) { f(cmd) }
