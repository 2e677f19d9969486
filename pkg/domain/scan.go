package domain

// ScanPhase is the stage of a simulated biometric scan.
type ScanPhase int

const (
	ScanIdle ScanPhase = iota
	ScanScanning
	ScanVerified
)

func (p ScanPhase) String() string {
	switch p {
	case ScanIdle:
		return "idle"
	case ScanScanning:
		return "scanning"
	case ScanVerified:
		return "verified"
	default:
		return "unknown"
	}
}

// MaxScanProgress is the progress value at which a scan is verified.
const MaxScanProgress = 100

// ScanState is a snapshot of a scan. Progress is 0 whenever Phase is ScanIdle.
type ScanState struct {
	Phase    ScanPhase `json:"phase"`
	Progress int       `json:"progress"`
}

// Active reports whether a scan is in flight.
func (s ScanState) Active() bool {
	return s.Phase != ScanIdle
}

// Fraction returns progress in [0,1] for progress bars.
func (s ScanState) Fraction() float64 {
	switch {
	case s.Progress <= 0:
		return 0
	case s.Progress >= MaxScanProgress:
		return 1
	}
	return float64(s.Progress) / MaxScanProgress
}
