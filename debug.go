package palvideo

import "time"

// frameStats holds per-frame draw metrics. Only logged when debug is on.
type frameStats struct {
	sprites      int
	draws        int
	culled       int
	uploads      int
	binds        int
	skippedBinds int
}

func (s frameStats) log() {
	Logger().WithGroup("palvideo").Debug("frame",
		"sprites", s.sprites,
		"draws", s.draws,
		"culled", s.culled,
		"uploads", s.uploads,
		"binds", s.binds,
		"skipped_binds", s.skippedBinds)
}

// presentStats holds compositor timing for one SwapBuffers call.
type presentStats struct {
	upload  time.Duration
	overlay time.Duration
	present time.Duration
	faded   bool
}

func (s presentStats) log() {
	Logger().WithGroup("palvideo").Debug("present",
		"upload", s.upload,
		"overlay", s.overlay,
		"present", s.present,
		"total", s.upload+s.overlay+s.present,
		"faded", s.faded)
}
