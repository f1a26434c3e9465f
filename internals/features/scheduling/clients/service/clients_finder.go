// file: internals/features/scheduling/clients/service/clients_finder.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"gorm.io/gorm"

	clientModel "agendaku_backend/internals/features/scheduling/clients/model"
)

// ClientView: data klien yang dibutuhkan scheduler & kalender
type ClientView struct {
	ID       uuid.UUID
	Name     string
	TagID    *uuid.UUID
	TagName  string
	TagColor string
}

type TagView struct {
	ID    uuid.UUID
	Name  string
	Color string
	Kind  clientModel.TagKind
}

// Finder resolves clients and tags scoped to one professional.
// None means "not found or not owned"; the error is reserved for storage failures.
type Finder interface {
	FindClient(ctx context.Context, professionalID, clientID uuid.UUID) (mo.Option[ClientView], error)
	FindTag(ctx context.Context, professionalID, tagID uuid.UUID) (mo.Option[TagView], error)
}

/* =========================================================
   GORM implementation
========================================================= */

type GormFinder struct {
	db *gorm.DB
}

func NewGormFinder(db *gorm.DB) *GormFinder { return &GormFinder{db: db} }

func (f *GormFinder) FindClient(ctx context.Context, professionalID, clientID uuid.UUID) (mo.Option[ClientView], error) {
	var m clientModel.ClientModel
	err := f.db.WithContext(ctx).
		Preload("ClientTag").
		Where("client_id = ? AND client_professional_id = ? AND client_is_active = TRUE", clientID, professionalID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return mo.None[ClientView](), nil
	}
	if err != nil {
		return mo.None[ClientView](), fmt.Errorf("find client: %w", err)
	}
	return mo.Some(toClientView(m)), nil
}

func (f *GormFinder) FindTag(ctx context.Context, professionalID, tagID uuid.UUID) (mo.Option[TagView], error) {
	var m clientModel.TagModel
	err := f.db.WithContext(ctx).
		Where("tag_id = ? AND tag_professional_id = ?", tagID, professionalID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return mo.None[TagView](), nil
	}
	if err != nil {
		return mo.None[TagView](), fmt.Errorf("find tag: %w", err)
	}
	return mo.Some(toTagView(m)), nil
}

func toClientView(m clientModel.ClientModel) ClientView {
	v := ClientView{ID: m.ClientID, Name: m.ClientName, TagID: m.ClientTagID}
	if m.ClientTag != nil {
		v.TagName = m.ClientTag.TagName
		v.TagColor = m.ClientTag.TagColor
	}
	return v
}

func toTagView(m clientModel.TagModel) TagView {
	return TagView{ID: m.TagID, Name: m.TagName, Color: m.TagColor, Kind: m.TagKind}
}

/* =========================================================
   In-memory implementation (tests, CLI dry-run)
========================================================= */

type MemoryFinder struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]memClient
	tags    map[uuid.UUID]memTag
}

type memClient struct {
	owner uuid.UUID
	view  ClientView
}

type memTag struct {
	owner uuid.UUID
	view  TagView
}

func NewMemoryFinder() *MemoryFinder {
	return &MemoryFinder{
		clients: make(map[uuid.UUID]memClient),
		tags:    make(map[uuid.UUID]memTag),
	}
}

// PutTag registers a tag owned by professionalID.
func (f *MemoryFinder) PutTag(professionalID uuid.UUID, t TagView) TagView {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	f.tags[t.ID] = memTag{owner: professionalID, view: t}
	return t
}

// PutClient registers a client; TagName/TagColor are filled from a registered tag.
func (f *MemoryFinder) PutClient(professionalID uuid.UUID, c ClientView) ClientView {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.TagID != nil {
		if t, ok := f.tags[*c.TagID]; ok {
			c.TagName = t.view.Name
			c.TagColor = t.view.Color
		}
	}
	f.clients[c.ID] = memClient{owner: professionalID, view: c}
	return c
}

func (f *MemoryFinder) FindClient(_ context.Context, professionalID, clientID uuid.UUID) (mo.Option[ClientView], error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.clients[clientID]
	if !ok || c.owner != professionalID {
		return mo.None[ClientView](), nil
	}
	return mo.Some(c.view), nil
}

func (f *MemoryFinder) FindTag(_ context.Context, professionalID, tagID uuid.UUID) (mo.Option[TagView], error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tags[tagID]
	if !ok || t.owner != professionalID {
		return mo.None[TagView](), nil
	}
	return mo.Some(t.view), nil
}
