// Package bucket classifies tasks into the attribute space used for
// learning per-user correction factors.
//
// Core types:
//   - Attributes: One point in the engagement x duration x category x
//     complexity space for a single task
//   - Key: A composite bucket key, possibly wildcarded on some axes
//   - Priors: Population-level prior mean and variance for an engagement tag
//
// ResolveKeys turns a task's attributes into the fixed five-level fallback
// sequence, from the fully specific bucket down to the global one. The
// ordering is versioned; see KeyOrderVersion.
package bucket
