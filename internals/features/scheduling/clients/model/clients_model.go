// file: internals/features/scheduling/clients/model/clients_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   Tag (warna & label klien / layanan)
========================================================= */

type TagKind string

const (
	TagKindClient  TagKind = "client"
	TagKindService TagKind = "service"
)

type TagModel struct {
	TagID             uuid.UUID `gorm:"column:tag_id;type:uuid;default:gen_random_uuid();primaryKey" json:"tag_id"`
	TagProfessionalID uuid.UUID `gorm:"column:tag_professional_id;type:uuid;not null;index" json:"tag_professional_id"`

	TagName  string  `gorm:"column:tag_name;type:varchar(80);not null" json:"tag_name"`
	TagColor string  `gorm:"column:tag_color;type:varchar(16)" json:"tag_color,omitempty"`
	TagKind  TagKind `gorm:"column:tag_kind;type:varchar(16);not null;default:'client'" json:"tag_kind"`

	TagCreatedAt time.Time      `gorm:"column:tag_created_at;type:timestamptz;not null;autoCreateTime" json:"tag_created_at"`
	TagUpdatedAt time.Time      `gorm:"column:tag_updated_at;type:timestamptz;not null;autoUpdateTime" json:"tag_updated_at"`
	TagDeletedAt gorm.DeletedAt `gorm:"column:tag_deleted_at;index" json:"tag_deleted_at,omitempty"`
}

func (TagModel) TableName() string { return "tags" }

/* =========================================================
   Client (pasien / pelanggan milik satu profesional)
========================================================= */

type ClientModel struct {
	ClientID             uuid.UUID `gorm:"column:client_id;type:uuid;default:gen_random_uuid();primaryKey" json:"client_id"`
	ClientProfessionalID uuid.UUID `gorm:"column:client_professional_id;type:uuid;not null;index" json:"client_professional_id"`

	ClientName  string     `gorm:"column:client_name;type:varchar(160);not null" json:"client_name"`
	ClientPhone *string    `gorm:"column:client_phone;type:varchar(32)" json:"client_phone,omitempty"`
	ClientTagID *uuid.UUID `gorm:"column:client_tag_id;type:uuid" json:"client_tag_id,omitempty"`
	ClientTag   *TagModel  `gorm:"foreignKey:ClientTagID;references:TagID" json:"client_tag,omitempty"`

	ClientIsActive bool `gorm:"column:client_is_active;not null;default:true" json:"client_is_active"`

	ClientCreatedAt time.Time      `gorm:"column:client_created_at;type:timestamptz;not null;autoCreateTime" json:"client_created_at"`
	ClientUpdatedAt time.Time      `gorm:"column:client_updated_at;type:timestamptz;not null;autoUpdateTime" json:"client_updated_at"`
	ClientDeletedAt gorm.DeletedAt `gorm:"column:client_deleted_at;index" json:"client_deleted_at,omitempty"`
}

func (ClientModel) TableName() string { return "clients" }
