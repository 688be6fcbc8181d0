// Package prompt loads the system prompts used by the generative backend.
//
// Prompts are plain text templates resolved in order: project override
// directories first, then the defaults embedded in the binary. Override a
// prompt by dropping a .txt file with the same name into
// .focusflow/prompts/ or prompts/ in the project directory.
package prompt
