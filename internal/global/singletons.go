package global

// ShowTimingLogs enables the debug-level timing logs of backend calls. It's set once from the config on start-up.
var ShowTimingLogs bool
