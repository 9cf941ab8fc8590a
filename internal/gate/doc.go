// Package gate implements the press-to-continue countdown of the warning screens.
package gate
