// Package coverage holds the pure coverage engine: shift keys, the substitute shift-override
// resolver, the coverage summary aggregator, absence classification and the derivation of
// dated shifts from a teacher's baseline schedule. Nothing here touches storage.
package coverage
