//go:build schedulerdebug

package sched

// debugBuildEnabled gates PauseExecution/ContinueExecution: when
// the debug feature flag is compiled off, pausing is never observed by the
// work-loop and the two functions become no-ops.
const debugBuildEnabled = true
