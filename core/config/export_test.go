package config

// Reset clears the per-type Load cache between tests.
var Reset = reset
