package seeds

import (
	"gorm.io/gorm"

	scheduling "agendaku_backend/internals/seeds/scheduling"
)

const DefaultClientsFile = "internals/seeds/scheduling/data_clients.json"

func RunAllSeeds(db *gorm.DB, clientsFile string) error {
	if clientsFile == "" {
		clientsFile = DefaultClientsFile
	}

	//* Scheduling
	return scheduling.SeedClientsFromJSON(db, clientsFile)
}
