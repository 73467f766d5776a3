//go:build abilitydebug

package ability

// Builds tagged abilitydebug panic on every precondition violation.
const debugAssertions = true
