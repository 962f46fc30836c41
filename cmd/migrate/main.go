package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"

	bqstore "github.com/confia-app/confia/internal/store/bigquery"
)

var (
	projectID = flag.String("project", "", "GCP project ID (required)")
	datasetID = flag.String("dataset", "confia", "BigQuery dataset ID")
	location  = flag.String("location", "US", "Dataset location")
)

// tableSpec names one entity table and its schema.
type tableSpec struct {
	name   string
	schema bigquery.Schema
}

func tableSpecs() []tableSpec {
	return []tableSpec{
		{"customers", bqstore.CustomersSchema()},
		{"suppliers", bqstore.SuppliersSchema()},
		{"transactions", bqstore.TransactionsSchema()},
	}
}

func main() {
	flag.Parse()

	ctx := context.Background()

	if *projectID == "" {
		log.Fatal("Error: -project flag is required. Please specify your GCP project ID.")
	}

	client, err := bigquery.NewClient(ctx, *projectID)
	if err != nil {
		log.Fatalf("Failed to create BigQuery client: %v", err)
	}
	defer client.Close()

	log.Printf("Connected to BigQuery project: %s, dataset: %s", *projectID, *datasetID)

	dataset := client.Dataset(*datasetID)
	if err := ensureDataset(ctx, dataset); err != nil {
		log.Fatalf("Failed to ensure dataset: %v", err)
	}

	for _, spec := range tableSpecs() {
		created, err := ensureTable(ctx, dataset, spec)
		if err != nil {
			log.Fatalf("Failed to ensure table %s: %v", spec.name, err)
		}
		if created {
			log.Printf("  [OK]   %s created", spec.name)
		} else {
			log.Printf("  [SKIP] %s (already exists)", spec.name)
		}
	}

	log.Println("Dataset is up to date.")
}

// ensureDataset creates the dataset, tolerating an existing one.
func ensureDataset(ctx context.Context, dataset *bigquery.Dataset) error {
	err := dataset.Create(ctx, &bigquery.DatasetMetadata{Location: *location})
	if alreadyExists(err) {
		return nil
	}
	return err
}

// ensureTable creates the table from its schema, tolerating an existing
// one. It reports whether the table was created.
func ensureTable(ctx context.Context, dataset *bigquery.Dataset, spec tableSpec) (bool, error) {
	err := dataset.Table(spec.name).Create(ctx, &bigquery.TableMetadata{Schema: spec.schema})
	if alreadyExists(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func alreadyExists(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 409
}
