// Command seed carga reclamos de demostración en el store configurado.
package main

import (
	"context"
	"os"
	"time"

	"civic-grievances/internal/bootstrap"
	"civic-grievances/internal/config"
	"civic-grievances/internal/domain/grievances"
	"civic-grievances/internal/domain/roles"
	"civic-grievances/internal/domain/status"
	"civic-grievances/internal/platform/logger"
)

type demo struct {
	reporter grievances.Actor
	input    grievances.SubmitInput
	status   status.Status
}

func ptr(f float64) *float64 { return &f }

var demos = []demo{
	{
		reporter: grievances.Actor{ID: "demo1", Name: "Rahul Sharma", Role: roles.Citizen},
		input: grievances.SubmitInput{
			Title:       "Large Pothole - HITEC City Road",
			Description: "Deep pothole near Mindspace junction causing traffic issues and vehicle damage",
			Category:    grievances.CategoryPothole,
			Urgency:     grievances.UrgencyHigh,
			Latitude:    ptr(17.4419),
			Longitude:   ptr(78.3816),
			Address:     "Near Mindspace, HITEC City",
		},
		status: status.InProgress,
	},
	{
		reporter: grievances.Actor{ID: "demo2", Name: "Priya Singh", Role: roles.Citizen},
		input: grievances.SubmitInput{
			Title:       "Street Light Not Working - Gachibowli",
			Description: "Light pole #45 not working for 5 days, making area unsafe at night",
			Category:    grievances.CategoryStreetlight,
			Urgency:     grievances.UrgencyMedium,
			Latitude:    ptr(17.4400),
			Longitude:   ptr(78.3480),
			Address:     "Gachibowli Main Road",
		},
		status: status.Submitted,
	},
	{
		reporter: grievances.Actor{ID: "demo3", Name: "Arun Kumar", Role: roles.Citizen},
		input: grievances.SubmitInput{
			Title:       "Garbage Overflow - Kondapur",
			Description: "Garbage bin overflowing for 3 days, attracting stray animals",
			Category:    grievances.CategoryGarbage,
			Urgency:     grievances.UrgencyHigh,
			Latitude:    ptr(17.4750),
			Longitude:   ptr(78.3636),
			Address:     "Kondapur Market Area",
		},
		status: status.Resolved,
	},
	{
		reporter: grievances.Actor{ID: "demo4", Name: "Sneha Reddy", Role: roles.Citizen},
		input: grievances.SubmitInput{
			Title:       "Water Logging - Madhapur",
			Description: "Heavy water logging after rain, difficult for pedestrians",
			Category:    grievances.CategoryDrainage,
			Urgency:     grievances.UrgencyMedium,
			Latitude:    ptr(17.4484),
			Longitude:   ptr(78.3915),
			Address:     "Madhapur Road",
		},
		status: status.Submitted,
	},
}

var operator = grievances.Actor{ID: "seed", Name: "Demo Seeder", Role: roles.MunicipalStaff}

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		App:    cfg.AppName + "-seed",
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFmt),
	})
	if cfg.StoreDriver == "memory" {
		log.Warn("STORE_DRIVER=memory, seeded data is lost when this process exits", nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deps, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.Error("bootstrap failed", logger.Fields{"err": err})
		os.Exit(1)
	}
	defer deps.Close()

	svc := grievances.NewService(deps.Repo, grievances.Options{
		Bus:    deps.Bus,
		Index:  deps.Index,
		Logger: log,
		Flow:   deps.Flow,
	})

	if err := seed(ctx, svc, log); err != nil {
		log.Error("seed failed", logger.Fields{"err": err})
		_ = deps.Close()
		os.Exit(1)
	}
	log.Info("demo data loaded", logger.Fields{"count": len(demos)})
}

func seed(ctx context.Context, svc *grievances.Service, log logger.Logger) error {
	for _, d := range demos {
		res, err := svc.Submit(ctx, d.reporter, d.input)
		if err != nil {
			return err
		}
		if d.status != status.Submitted {
			st := d.status
			if _, err := svc.Update(ctx, operator, res.Grievance.ID, grievances.Change{Status: &st}); err != nil {
				return err
			}
		}
		log.Info("seeded grievance", logger.Fields{"id": res.Grievance.ID, "title": d.input.Title, "status": d.status})
	}
	return nil
}
