package lifecycle

import "context"

// SetupStage identifies one of the two ordered render setup steps.
type SetupStage int

const (
	// StageScreen allocates and initializes the raw terminal screen.
	StageScreen SetupStage = iota + 1

	// StageChrome builds the application chrome on the initialized screen.
	// It is only ever requested after StageScreen succeeded.
	StageChrome
)

func (s SetupStage) String() string {
	switch s {
	case StageScreen:
		return "screen"
	case StageChrome:
		return "chrome"
	default:
		return "unknown"
	}
}

// Indicator kinds passed to ShowIndicator.
const (
	IndicatorSplash  = "splash"
	IndicatorConnect = "connecting"
)

// Error locations passed to ShowError. Fatal errors replace the whole
// surface; connect errors sit next to the connect controls.
const (
	ErrorLocationFatal   = "fatal"
	ErrorLocationConnect = "connect"
)

// Indicator is a cancelable piece of transient feedback. The coordinator
// cancels each indicator it shows exactly once.
type Indicator interface {
	Cancel()
}

// RenderSetup readies the rendering surface one stage at a time, in order.
// StageChrome may assume StageScreen completed.
type RenderSetup interface {
	Setup(ctx context.Context, stage SetupStage) error
}

// Screen is the surface the coordinator drives. Implementations must not
// block and must not call back into the coordinator; some calls arrive
// while it holds its state lock.
type Screen interface {
	RenderSetup

	ShowIndicator(kind string, text string) Indicator
	ShowError(location string, message string, detail string)
}
