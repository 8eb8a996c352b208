// Package view defines the two instruction shapes the core hands to the
// web-serving shell: render a named template with an enumerated parameter
// mapping, or redirect. The core never touches markup; executing an
// instruction is the shell's job.
package view

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// Render instructs the shell to resolve Template and render it with Params.
// Params are enumerated explicitly by each handler; caller-controlled keys
// are never passed through opaquely.
type Render struct {
	Template string         `json:"template"`
	Params   map[string]any `json:"params"`
}

// Redirect instructs the shell to send the client to Path with Query.
type Redirect struct {
	Path  string     `json:"path"`
	Query url.Values `json:"query,omitempty"`
}

// Location returns the redirect target with its query string attached.
func (r Redirect) Location() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Executor applies instructions to an HTTP response.
type Executor interface {
	Execute(c *fiber.Ctx, status int, instruction any) error
}

// JSONExecutor is the API-shaped shell: render instructions become JSON
// bodies carrying the template name and parameters, redirects become 302s.
type JSONExecutor struct{}

// Execute applies the instruction to the fiber context.
func (JSONExecutor) Execute(c *fiber.Ctx, status int, instruction any) error {
	switch inst := instruction.(type) {
	case Render:
		return c.Status(status).JSON(inst)
	case Redirect:
		return c.Redirect(inst.Location(), fiber.StatusFound)
	default:
		return c.Status(status).JSON(instruction)
	}
}
