//go:build !abilitydebug

package ability

const debugAssertions = false
