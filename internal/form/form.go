// package form drives the create and edit flows for a single snippet draft.
package form

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/snipvault/internal/models"
	"github.com/desertthunder/snipvault/internal/services"
	"github.com/desertthunder/snipvault/internal/shared"
)

// Controller holds one editable draft and the id it is bound to. An unbound
// controller (id zero) submits as a create; binding via [Controller.LoadForEdit]
// switches submission to an update of that snippet.
type Controller struct {
	mu      sync.Mutex
	gateway services.Gateway
	draft   models.Draft
	id      int64
	busy    bool
}

func NewController(gateway services.Gateway) *Controller {
	return &Controller{gateway: gateway, draft: models.Draft{Language: models.Languages[0]}}
}

// Draft returns the current draft state.
func (c *Controller) Draft() models.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the draft wholesale, typically from form field values.
func (c *Controller) SetDraft(draft models.Draft) {
	c.mu.Lock()
	c.draft = draft
	c.mu.Unlock()
}

// Editing reports whether the controller is bound to an existing snippet.
func (c *Controller) Editing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id != 0
}

// BoundID returns the bound snippet id, zero when creating.
func (c *Controller) BoundID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Reset unbinds the controller and restores an empty draft for a fresh create.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.draft = models.Draft{Language: models.Languages[0]}
	c.id = 0
	c.mu.Unlock()
}

// LoadForEdit fetches the caller's snippets, locates the one with the given
// id, and binds the controller to it with the draft pre-filled from its
// current fields. A missing id yields [shared.ErrNotFound]; the edit surface
// covers owned snippets only.
func (c *Controller) LoadForEdit(ctx context.Context, id int64) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	snippets, err := c.gateway.MySnippets(ctx)
	if err != nil {
		return err
	}

	for _, s := range snippets {
		if s.ID == id {
			c.mu.Lock()
			c.draft = models.FromSnippet(s)
			c.id = id
			c.mu.Unlock()
			return nil
		}
	}

	return fmt.Errorf("%w: snippet %d is not in your collection", shared.ErrNotFound, id)
}

// Submit validates the draft and sends it as a create or, when bound, an
// update. Validation failures never reach the network. On success the saved
// snippet is returned and the controller resets for the next create.
func (c *Controller) Submit(ctx context.Context) (*models.Snippet, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	c.mu.Lock()
	draft := c.draft
	id := c.id
	c.mu.Unlock()

	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	var saved *models.Snippet
	var err error
	if id != 0 {
		saved, err = c.gateway.UpdateSnippet(ctx, id, draft)
	} else {
		saved, err = c.gateway.CreateSnippet(ctx, draft)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.draft = models.Draft{Language: models.Languages[0]}
	c.id = 0
	c.mu.Unlock()
	return saved, nil
}

// InFlight reports whether a load or submit is outstanding.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return shared.ErrRequestInFlight
	}
	c.busy = true
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}
