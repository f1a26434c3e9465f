package scheduling

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	clientModel "agendaku_backend/internals/features/scheduling/clients/model"
)

type TagSeed struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Kind  string `json:"kind"` // client | service
}

type ClientSeed struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Tag   string `json:"tag"` // nama tag (kind client)
}

type ProfessionalSeed struct {
	ProfessionalID uuid.UUID    `json:"professional_id"`
	Tags           []TagSeed    `json:"tags"`
	Clients        []ClientSeed `json:"clients"`
}

func ReadSeedFile(filePath string) ([]ProfessionalSeed, error) {
	log.Println("📥 Membaca file seed:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("baca file seed: %w", err)
	}
	var inputs []ProfessionalSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return inputs, nil
}

// SeedClientsFromJSON: tag & klien per profesional; yang sudah ada (by nama) dilewati
func SeedClientsFromJSON(db *gorm.DB, filePath string) error {
	inputs, err := ReadSeedFile(filePath)
	if err != nil {
		return err
	}

	for _, p := range inputs {
		if p.ProfessionalID == uuid.Nil {
			log.Println("⚠️ professional_id kosong, dilewati.")
			continue
		}

		tagIDs := map[string]uuid.UUID{}
		for _, t := range p.Tags {
			id, err := upsertTag(db, p.ProfessionalID, t)
			if err != nil {
				return err
			}
			if t.Kind == "" || t.Kind == string(clientModel.TagKindClient) {
				tagIDs[strings.ToLower(t.Name)] = id
			}
		}

		for _, cs := range p.Clients {
			var existing clientModel.ClientModel
			err := db.Where("client_professional_id = ? AND client_name = ?", p.ProfessionalID, cs.Name).
				First(&existing).Error
			if err == nil {
				log.Printf("ℹ️ Klien '%s' sudah ada, dilewati.", cs.Name)
				continue
			}

			row := clientModel.ClientModel{
				ClientProfessionalID: p.ProfessionalID,
				ClientName:           cs.Name,
				ClientIsActive:       true,
			}
			if cs.Phone != "" {
				phone := cs.Phone
				row.ClientPhone = &phone
			}
			if id, ok := tagIDs[strings.ToLower(cs.Tag)]; ok {
				row.ClientTagID = &id
			}
			if err := db.Create(&row).Error; err != nil {
				return fmt.Errorf("insert klien %q: %w", cs.Name, err)
			}
			log.Printf("✅ Berhasil insert klien '%s'", cs.Name)
		}
	}
	return nil
}

func upsertTag(db *gorm.DB, prof uuid.UUID, t TagSeed) (uuid.UUID, error) {
	kind := clientModel.TagKind(strings.ToLower(strings.TrimSpace(t.Kind)))
	if kind == "" {
		kind = clientModel.TagKindClient
	}

	var existing clientModel.TagModel
	err := db.Where("tag_professional_id = ? AND tag_name = ? AND tag_kind = ?", prof, t.Name, kind).
		First(&existing).Error
	if err == nil {
		return existing.TagID, nil
	}

	row := clientModel.TagModel{
		TagID:             uuid.New(),
		TagProfessionalID: prof,
		TagName:           t.Name,
		TagColor:          t.Color,
		TagKind:           kind,
	}
	if err := db.Create(&row).Error; err != nil {
		return uuid.Nil, fmt.Errorf("insert tag %q: %w", t.Name, err)
	}
	log.Printf("✅ Berhasil insert tag '%s' (%s)", t.Name, kind)
	return row.TagID, nil
}
