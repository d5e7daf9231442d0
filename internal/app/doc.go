// Package app contains the application logic behind the iwgo commands. It
// owns the logger, the material palette and the template registry, and is
// decoupled from any specific entrypoint like a CLI.
package app
