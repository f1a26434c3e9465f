package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"agendaku_backend/internals/configs"
	database "agendaku_backend/internals/databases"
	"agendaku_backend/internals/features/scheduling/recurrence"
	"agendaku_backend/internals/helpers/datefmt"
	"agendaku_backend/internals/seeds"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "agendactl",
		Usage: "Tooling agenda: migrasi, seed, preview recorrência, config.",
		Commands: []*cli.Command{
			migrateCommand(),
			seedCommand(),
			previewCommand(),
			configCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Buat/upgrade tabel scheduling + exclusion constraint.",
		Action: func(c *cli.Context) error {
			db, err := configs.InitCLIDB()
			if err != nil {
				return err
			}
			return database.Migrate(db)
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Isi tag & klien contoh dari file JSON.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Value: seeds.DefaultClientsFile, Usage: "path file seed JSON"},
		},
		Action: func(c *cli.Context) error {
			db, err := configs.InitCLIDB()
			if err != nil {
				return err
			}
			return seeds.RunAllSeeds(db, c.String("file"))
		},
	}
}

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:  "preview",
		Usage: "Tampilkan tanggal yang dihasilkan aturan recorrência (tanpa menyimpan).",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Required: true, Usage: "daily|weekly|monthly (atau diaria/semanal/mensal)"},
			&cli.StringFlag{Name: "start", Required: true, Usage: "tanggal mulai YYYY-MM-DD"},
			&cli.StringFlag{Name: "end", Usage: "tanggal akhir YYYY-MM-DD (inklusif)"},
			&cli.IntFlag{Name: "interval", Value: 1},
			&cli.IntSliceFlag{Name: "weekdays", Usage: "ISO 1=Senin..7=Minggu, mis. --weekdays 1,3"},
			&cli.IntFlag{Name: "day-of-month"},
			&cli.IntFlag{Name: "count", Usage: "maksimum occurrence"},
			&cli.IntFlag{Name: "limit", Value: 10, Usage: "batas baris yang ditampilkan (0 = semua)"},
		},
		Action: func(c *cli.Context) error {
			spec, err := specFromFlags(c)
			if err != nil {
				return err
			}
			dates, err := recurrence.Collect(spec, c.Int("limit"))
			if err != nil {
				return err
			}
			rule, err := recurrence.RRule(spec)
			if err != nil {
				return err
			}

			fmt.Printf("RRULE:%s\n", rule)
			for i, d := range dates {
				fmt.Printf("%3d  %s  %s\n", i+1, datefmt.FormatDate(d), datefmt.WeekdayName(d))
			}
			fmt.Printf("total: %d\n", len(dates))
			return nil
		},
	}
}

func specFromFlags(c *cli.Context) (recurrence.Spec, error) {
	kind, err := recurrence.ParseKind(c.String("kind"))
	if err != nil {
		return recurrence.Spec{}, err
	}
	start, err := recurrence.ParseDate(c.String("start"))
	if err != nil {
		return recurrence.Spec{}, err
	}
	spec := recurrence.Spec{
		Kind:           kind,
		Interval:       c.Int("interval"),
		Weekdays:       c.IntSlice("weekdays"),
		DayOfMonth:     c.Int("day-of-month"),
		StartDate:      start,
		MaxOccurrences: c.Int("count"),
	}
	if s := c.String("end"); s != "" {
		end, err := recurrence.ParseDate(s)
		if err != nil {
			return recurrence.Spec{}, err
		}
		spec.EndDate = &end
	}
	return spec, nil
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Kelola file konfigurasi agenda (YAML).",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Tulis konfigurasi default ke --path.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Value: "scheduling.yaml"},
					&cli.StringFlag{Name: "timezone", Usage: "override timezone default"},
				},
				Action: func(c *cli.Context) error {
					cfg := configs.DefaultScheduling()
					if tz := c.String("timezone"); tz != "" {
						cfg.Timezone = tz
					}
					if err := cfg.Validate(); err != nil {
						return err
					}
					if err := configs.SaveScheduling(c.String("path"), cfg); err != nil {
						return err
					}
					log.Printf("✅ Config ditulis ke %s", c.String("path"))
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "Tampilkan konfigurasi efektif (file SCHEDULING_CONFIG + default).",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", EnvVars: []string{"SCHEDULING_CONFIG"}},
				},
				Action: func(c *cli.Context) error {
					cfg, err := configs.LoadScheduling(c.String("path"))
					if err != nil {
						return err
					}
					fmt.Printf("timezone: %s\nwindow:   %s-%s\nslot:     %d menit\npreview:  %d\ncolor:    %s\n",
						cfg.Timezone, cfg.DayStart, cfg.DayEnd, cfg.SlotMinutes, cfg.PreviewLimit, cfg.DefaultColor)
					return nil
				},
			},
		},
	}
}
