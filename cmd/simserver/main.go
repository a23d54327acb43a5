// Command simserver is an in-process simulator of the diagnosis server:
// it implements the server half of the claim, upload, retrieval and
// configuration endpoints so the client can be exercised end-to-end
// without real infrastructure. It is a protocol mirror for testing, not a
// production server.
//
//	simserver -addr :8500 -hmac-key deadbeef -codes AAABBBCCC,DDDEEEFFF
package main

import (
	"crypto/rand"
	"crypto/subtle"
	"flag"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/nacl/box"

	"github.com/exposurekit/backend/crypto"
	"github.com/exposurekit/backend/limits"
	"github.com/exposurekit/backend/wire"
)

const exposureConfigDoc = `{"minimumRiskScore":0,"attenuationLevelValues":[1,2,3,4,5,6,7,8],"attenuationWeight":50,"daysSinceLastExposureLevelValues":[1,2,3,4,5,6,7,8],"daysSinceLastExposureWeight":50,"durationLevelValues":[1,2,3,4,5,6,7,8],"durationWeight":50,"transmissionRiskLevelValues":[1,2,3,4,5,6,7,8],"transmissionRiskWeight":50}`

type simServer struct {
	signer *crypto.Signer

	mu       sync.Mutex // guards codes and keyPairs
	codes    map[string]bool
	keyPairs map[[limits.KeyLength]byte]*[limits.KeyLength]byte // server pub -> server priv
}

func newSimServer(signer *crypto.Signer, codes []string) *simServer {
	allowed := make(map[string]bool, len(codes))
	for _, c := range codes {
		allowed[c] = true
	}
	return &simServer{
		signer:   signer,
		codes:    allowed,
		keyPairs: make(map[[limits.KeyLength]byte]*[limits.KeyLength]byte),
	}
}

func (s *simServer) registerRouting(r *mux.Router) {
	r.HandleFunc("/claim-key", s.claimKey).Methods(http.MethodPost)
	r.HandleFunc("/upload", s.upload).Methods(http.MethodPost)
	r.HandleFunc("/retrieve-day/{date}/{hmac}", s.retrieveDay).Methods(http.MethodGet)
	r.HandleFunc("/retrieve-hour/{date}/{hour}/{hmac}", s.retrieveHour).Methods(http.MethodGet)
	r.HandleFunc("/config/{region}/exposure.json", s.exposureConfig).Methods(http.MethodGet)
}

func (s *simServer) claimKey(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	req, err := wire.UnmarshalKeyClaimRequest(body)
	if err != nil {
		logrus.WithError(err).Warn("Error unmarshalling claim request")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if _, err := limits.IntoKey(req.AppPublicKey); err != nil {
		logrus.Warn("App public key was not expected length")
		respond(w, (&wire.KeyClaimResponse{Error: "invalid key"}).Marshal())
		return
	}

	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Check-and-delete must be atomic so concurrent claims of the same
	// code cannot both succeed.
	s.mu.Lock()
	if !s.codes[req.OneTimeCode] {
		s.mu.Unlock()
		respond(w, (&wire.KeyClaimResponse{Error: "not found"}).Marshal())
		return
	}
	delete(s.codes, req.OneTimeCode)
	s.keyPairs[*pub] = priv
	s.mu.Unlock()

	logrus.WithField("function", "claimKey").Info("One-time code claimed")
	respond(w, (&wire.KeyClaimResponse{ServerPublicKey: pub[:]}).Marshal())
}

func (s *simServer) upload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	env, err := wire.UnmarshalEncryptedUploadRequest(body)
	if err != nil {
		logrus.WithError(err).Warn("Error unmarshalling upload request")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	serverPub, err := limits.IntoKey(env.ServerPublicKey)
	if err != nil {
		respondUploadError(w, "server public key was not expected length")
		return
	}
	appPub, err := limits.IntoKey(env.AppPublicKey)
	if err != nil {
		respondUploadError(w, "app public key was not expected length")
		return
	}
	nonce, err := limits.IntoNonce(env.Nonce)
	if err != nil {
		respondUploadError(w, "nonce was not expected length")
		return
	}

	s.mu.Lock()
	priv := s.keyPairs[*serverPub]
	s.mu.Unlock()
	if priv == nil {
		respondUploadError(w, "unknown server public key")
		return
	}

	plaintext, ok := box.Open(nil, env.Payload, nonce, appPub, priv)
	if !ok {
		respondUploadError(w, "decryption failed")
		return
	}
	upload, err := wire.UnmarshalUpload(plaintext)
	if err != nil {
		respondUploadError(w, "invalid payload")
		return
	}
	if err := limits.ValidateKeyCount(len(upload.Keys)); err != nil {
		respondUploadError(w, "too many keys")
		return
	}
	for _, k := range upload.Keys {
		if err := limits.ValidateKeyData(k.KeyData); err != nil {
			respondUploadError(w, "invalid key data")
			return
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":  "upload",
		"key_count": len(upload.Keys),
		"timestamp": upload.Timestamp,
	}).Info("Accepted encrypted key upload")
	respond(w, (&wire.EncryptedUploadResponse{}).Marshal())
}

func (s *simServer) retrieveDay(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	want, err := s.signer.SignDay(vars["date"])
	if err != nil {
		http.Error(w, "bad date", http.StatusBadRequest)
		return
	}
	s.serveKeyFile(w, want, vars["hmac"])
}

func (s *simServer) retrieveHour(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	hour, err := strconv.Atoi(vars["hour"])
	if err != nil {
		http.Error(w, "bad hour", http.StatusBadRequest)
		return
	}
	want, err := s.signer.SignHour(vars["date"], hour)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.serveKeyFile(w, want, vars["hmac"])
}

func (s *simServer) serveKeyFile(w http.ResponseWriter, want, got string) {
	// Signatures are recomputed server-side for the current hour window;
	// an expired-window signature simply no longer matches.
	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write([]byte("simulated diagnosis key export"))
}

func (s *simServer) exposureConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, exposureConfigDoc)
}

func respond(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/x-protobuf")
	w.Write(body)
}

func respondUploadError(w http.ResponseWriter, reason string) {
	logrus.WithField("reason", reason).Warn("Rejecting upload")
	respond(w, (&wire.EncryptedUploadResponse{Error: reason}).Marshal())
}

// requestID tags each request with a correlation id for the logs.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		logrus.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Debug("Handling request")
		next.ServeHTTP(w, r)
	})
}

func main() {
	addr := flag.String("addr", ":8500", "listen address")
	hmacKey := flag.String("hmac-key", "deadbeef", "shared retrieval HMAC secret (hex)")
	codes := flag.String("codes", "AAABBBCCC", "comma-separated valid one-time codes")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	if parsed, err := logrus.ParseLevel(*level); err == nil {
		logrus.SetLevel(parsed)
	}

	signer, err := crypto.NewSigner(*hmacKey)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid HMAC secret")
	}

	srv := newSimServer(signer, strings.Split(*codes, ","))
	router := mux.NewRouter()
	srv.registerRouting(router)

	chain := alice.New(requestID)

	logrus.WithField("addr", *addr).Info("Simulator listening")
	if err := http.ListenAndServe(*addr, chain.Then(router)); err != nil {
		logrus.WithError(err).Fatal("Server stopped")
	}
}
