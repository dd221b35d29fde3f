package common

// UnknownStr is returned by String methods for values outside their enum range.
const UnknownStr = "unknown"
