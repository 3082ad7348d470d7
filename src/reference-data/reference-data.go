package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/railwatch/vstp-engine/src/common/types"
	"github.com/railwatch/vstp-engine/src/common/utils"
)

const defaultCorpusURL = "https://publicdatafeeds.networkrail.co.uk/ntrod/SupportingFileAuthenticate?type=CORPUS"

func downloadCorpus() (*types.CorpusReference, error) {
	url := os.Getenv("NR_CORPUS_URL")
	if url == "" {
		url = defaultCorpusURL
	}
	username := os.Getenv("NR_FEEDS_USERNAME")
	password := os.Getenv("NR_FEEDS_PASSWORD")

	client := &http.Client{}
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(username, password)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	gzReader, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, err
	}
	defer gzReader.Close()

	body, err := io.ReadAll(gzReader)
	if err != nil {
		return nil, err
	}

	var corpus types.CorpusReference
	if err := json.Unmarshal(body, &corpus); err != nil {
		return nil, err
	}

	return &corpus, nil
}

func UpdateTiplocs(pg *pgxpool.Pool) error {
	corpus, err := downloadCorpus()
	if err != nil {
		return err
	}

	tx, err := pg.Begin(context.Background())
	if err != nil {
		return err
	}
	defer tx.Rollback(context.Background())

	if _, err = tx.Exec(context.Background(), "TRUNCATE TABLE tiploc"); err != nil {
		return err
	}

	inserted := 0
	for _, entry := range corpus.TiplocData {
		if entry.Tiploc == "" {
			continue
		}
		_, err := tx.Exec(context.Background(), `INSERT INTO tiploc (tiploc_code, nalco, stanox, crs_code, description)
			VALUES ($1, $2, $3, $4, $5)`,
			entry.Tiploc,
			entry.Nlc,
			entry.Stanox,
			entry.ThreeAlpha,
			entry.Description,
		)
		if err != nil {
			return err
		}
		inserted++
	}

	tx.Exec(context.Background(), "UPDATE reference_fetch SET last_fetched = NOW() WHERE key = 'corpus'")

	if err := tx.Commit(context.Background()); err != nil {
		return err
	}

	log.Printf("Loaded %d TIPLOC entries from CORPUS", inserted)

	return nil
}

func main() {
	pg, err := utils.NewPostgresConnection()
	if err != nil {
		log.Fatal(err)
	}

	for {
		rows, err := pg.Query(context.Background(), "SELECT key FROM reference_fetch WHERE last_fetched + max_age < NOW()")
		if err != nil {
			log.Fatal(err)
		}

		var key string
		for rows.Next() {
			if err := rows.Scan(&key); err != nil {
				log.Fatal(err)
			}

			switch key {
			case "corpus":
				log.Println("Updating CORPUS location reference data...")
				err := UpdateTiplocs(pg)
				if err != nil {
					log.Printf("Error updating CORPUS reference data: %v\n", err)
				} else {
					log.Println("CORPUS reference data updated successfully.")
				}
			default:
				fmt.Printf("Unknown key: %s\n", key)
			}
		}

		rows.Close()

		// Sleep for a while before checking again
		time.Sleep(1 * time.Hour)
	}
}
