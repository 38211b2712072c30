package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/jurisnorm/jurisnorm"
	"github.com/jurisnorm/jurisnorm/core"
)

// Sample vocabulary with deliberate variant spellings, the kind of noise
// this toolkit exists to clean up.
var descritores = []string{
	"Acórdão",
	"Acórdão",
	"Acórdão",
	"Acórdão",
	"Acordão",
	"Recurso de Revista",
	"Recurso de Revista",
	"Recurso de revista",
	"Habeas Corpus",
	"Responsabilidade Civil",
	"Responsabilidade civil",
	"Contrato de Trabalho",
	"Contrato de trabalho",
	"Prescrição",
	"Prescriçao",
	"Nulidade de Sentença",
	"Nulidade de sentença",
	"Dano Patrimonial",
	"Danos Patrimoniais",
	"Impugnação da Matéria de Facto",
}

var meiosProcessuais = []string{
	"Revista",
	"Revista",
	"Revista excecional",
	"Revista excepcional",
	"Apelação",
	"Apelaçao",
	"Agravo",
}

var decisoes = []string{
	"Concedida",
	"Negada",
	"Negada a revista",
	"Negada a Revista",
	"Anulado o acórdão",
	"Anulado o Acordão",
}

func pick(rng *rand.Rand, values []string, n int) []string {
	out := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for len(out) < n {
		v := values[rng.Intn(len(values))]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func main() {
	dbPath := flag.String("db", "", "Path to BadgerDB database directory")
	count := flag.Int("count", 200, "Number of documents to seed")
	seed := flag.Int64("seed", 42, "Random seed")
	flag.Parse()

	if *dbPath == "" {
		slog.Error("missing required -db flag")
		os.Exit(1)
	}

	db, err := jurisnorm.NewDatabase(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rng := rand.New(rand.NewSource(*seed))
	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	span := int(time.Since(start).Hours() / 24)

	ctx := context.Background()
	docs := make([]*core.Document, 0, *count)
	for i := 0; i < *count; i++ {
		date := start.AddDate(0, 0, rng.Intn(span))
		ecli := "ECLI:PT:STJ:" + date.Format("2006") + ":SEED." + time.Now().Format("150405") + "." + string(rune('A'+i%26)) + date.Format("0102")

		fields := map[string]core.GenericField{
			"Descritores":     fieldOf(pick(rng, descritores, 1+rng.Intn(3))),
			"Meio Processual": fieldOf(pick(rng, meiosProcessuais, 1)),
			"Decisão":         fieldOf(pick(rng, decisoes, 1)),
		}

		docs = append(docs, &core.Document{
			ECLI:   ecli + "." + string(rune('A'+rng.Intn(26))) + string(rune('A'+rng.Intn(26))),
			Date:   date,
			Fields: fields,
		})
	}

	added, err := db.DocumentRepository().AddDocuments(ctx, docs...)
	if err != nil {
		slog.Error("failed to seed documents", "err", err)
		os.Exit(1)
	}

	slog.Info("seeded documents", "count", len(added), "db", *dbPath)
}

func fieldOf(values []string) core.GenericField {
	return core.GenericField{
		Show:     values,
		Index:    append([]string(nil), values...),
		Original: append([]string(nil), values...),
	}
}
