// Command enbackend exercises the backend client against a live server:
// claim a one-time code, report a key batch with it, or retrieve diagnosis
// key files.
//
// Configuration comes from the environment (see package config):
//
//	EN_RETRIEVE_URL=http://localhost:8500 \
//	EN_SUBMIT_URL=http://localhost:8500 \
//	EN_HMAC_KEY=deadbeef \
//	enbackend -op claim -code AAABBBCCC
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/exposurekit/backend"
	"github.com/exposurekit/backend/config"
	"github.com/exposurekit/backend/crypto"
	"github.com/exposurekit/backend/limits"
)

func main() {
	op := flag.String("op", "", "operation: claim, report, retrieve-day, retrieve-hour, exposure-config")
	code := flag.String("code", "", "one-time code for -op claim")
	keySetPath := flag.String("keyset", "keyset.json", "stored key set path for claim/report")
	date := flag.String("date", time.Now().UTC().Format("2006-01-02"), "UTC date for retrieval")
	hour := flag.Int("hour", 0, "UTC hour for -op retrieve-hour")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Loading configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	client, err := backend.New(backend.Options{
		RetrieveURL: cfg.RetrieveURL,
		SubmitURL:   cfg.SubmitURL,
		HMACKey:     cfg.HMACKey,
		Region:      cfg.Region,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Creating backend client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch *op {
	case "claim":
		runClaim(ctx, client, *code, *keySetPath)
	case "report":
		runReport(ctx, client, *keySetPath)
	case "retrieve-day":
		files, err := client.RetrieveDiagnosisKeysByDay(ctx, *date)
		if err != nil {
			logrus.WithError(err).Fatal("Retrieving daily keys")
		}
		logrus.WithFields(logrus.Fields{"date": *date, "files": len(files)}).Info("Retrieved daily key files")
	case "retrieve-hour":
		files, err := client.RetrieveDiagnosisKeysByHour(ctx, *date, *hour)
		if err != nil {
			logrus.WithError(err).Fatal("Retrieving hourly keys")
		}
		logrus.WithFields(logrus.Fields{"date": *date, "hour": *hour, "files": len(files)}).Info("Retrieved hourly key files")
	case "exposure-config":
		doc, err := client.GetExposureConfiguration(ctx)
		if err != nil {
			logrus.WithError(err).Fatal("Fetching exposure configuration")
		}
		os.Stdout.Write(doc)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runClaim(ctx context.Context, client *backend.Client, code, path string) {
	if code == "" {
		logrus.Fatal("-code is required for -op claim")
	}

	keySet, err := client.ClaimOneTimeCode(ctx, code)
	if err != nil {
		logrus.WithError(err).Fatal("Claiming one-time code")
	}
	defer keySet.Wipe()

	data, err := json.MarshalIndent(keySet.Stored(), "", "  ")
	if err != nil {
		logrus.WithError(err).Fatal("Encoding key set")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		logrus.WithError(err).Fatal("Writing key set")
	}
	logrus.WithField("path", path).Info("Claim confirmed, key set stored")
}

func runReport(ctx context.Context, client *backend.Client, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).Fatal("Reading stored key set")
	}
	var stored backend.StoredKeySet
	if err := json.Unmarshal(data, &stored); err != nil {
		logrus.WithError(err).Fatal("Decoding stored key set")
	}
	keySet, err := backend.ParseStoredKeySet(stored)
	if err != nil {
		logrus.WithError(err).Fatal("Parsing stored key set")
	}
	defer keySet.Wipe()

	// Demo batch: one random key for the current rolling period.
	keyData, err := crypto.SystemRandomSource{}.Bytes(limits.KeyDataLength)
	if err != nil {
		logrus.WithError(err).Fatal("Generating demo key data")
	}
	keys := []backend.ExposureKey{{
		KeyData:               base64.StdEncoding.EncodeToString(keyData),
		RollingStartNumber:    uint32(time.Now().Unix() / 600 / 144 * 144),
		TransmissionRiskLevel: 4,
	}}

	if _, err := client.ReportDiagnosisKeys(ctx, keySet, keys); err != nil {
		logrus.WithError(err).Fatal("Reporting diagnosis keys")
	}
	logrus.WithField("keys", len(keys)).Info("Upload acknowledged")
}
