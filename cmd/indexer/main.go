package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/bkonan/veilleur/internal/application"
	apprag "github.com/bkonan/veilleur/internal/application/rag"
	"github.com/bkonan/veilleur/internal/config"
	domforces "github.com/bkonan/veilleur/internal/domain/forces"
	mysqlp "github.com/bkonan/veilleur/internal/infra/db/mysql"
	postgresp "github.com/bkonan/veilleur/internal/infra/db/postgres"
	"github.com/bkonan/veilleur/internal/infra/embed"
	"github.com/bkonan/veilleur/internal/infra/vector"
)

var (
	configPath = flag.String("config", "config.yaml", "Path to the yaml config file")
	partyID    = flag.String("party", "", "Only index elements of this party id")
	timeout    = flag.Duration("timeout", 10*time.Minute, "Overall indexing deadline")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var repo domforces.Repository
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		repo = postgresp.NewForcesRepository(db)
	default:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		repo = mysqlp.NewForcesRepository(db)
	}

	qdrant, err := vector.NewQdrant(cfg.Qdrant.Host, cfg.Qdrant.Port, cfg.Qdrant.Collection, cfg.Qdrant.VectorSize)
	if err != nil {
		log.Fatalf("qdrant init error: %v", err)
	}
	defer qdrant.Close()
	if err := qdrant.EnsureCollection(ctx); err != nil {
		log.Fatalf("qdrant collection error: %v", err)
	}

	embedder, err := embed.NewOllama(cfg.Ollama.Host, cfg.Ollama.EmbedModel)
	if err != nil {
		log.Fatalf("ollama init error: %v", err)
	}

	// The indexer only writes vectors, it never calls a completion provider.
	ragSvc := apprag.NewService(embedder, qdrant, nil, application.SystemClock{})

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Println(boldGreen("Indexation forces/faiblesses"))
	fmt.Printf("Collection: %s, modèle d'embedding: %s\n\n", boldCyan(cfg.Qdrant.Collection), boldCyan(cfg.Ollama.EmbedModel))

	parties, err := repo.ListParties(ctx)
	if err != nil {
		log.Fatalf("list parties error: %v", err)
	}

	indexed, failed := 0, 0
	for _, party := range parties {
		if *partyID != "" && party.ID != *partyID {
			continue
		}

		elements, err := repo.ListElements(ctx, party.ID, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", red("erreur"), party.Nom, err)
			failed++
			continue
		}

		fmt.Printf("%s (%d éléments)\n", boldCyan(party.Nom), len(elements))
		for _, e := range elements {
			docID, err := ragSvc.AddForces(ctx, e, party.Nom)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  %s %s: %v\n", red("échec"), e.Nom, err)
				failed++
				continue
			}
			fmt.Printf("  indexé %s -> %s\n", e.Nom, docID)
			indexed++
		}
	}

	fmt.Println()
	fmt.Printf("%s %d documents indexés, %d échecs\n", boldGreen("Terminé:"), indexed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
