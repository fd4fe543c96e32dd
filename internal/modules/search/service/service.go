package service

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"os"
	"strings"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"kelana.id/travelapp/internal/entity"
)

const tripsIndex = "trips"

// SearchService keeps the Meilisearch trips index in sync with published
// trips. Only public trips are ever indexed.
type SearchService interface {
	IndexTrip(trip *entity.Trip) error
	DeleteTrip(id string) error
	SearchTrips(query, countryCode string, limit int64) ([]TripDoc, error)
	GenerateSearchToken() (string, error)
}

type searchService struct {
	client        meilisearch.ServiceManager
	masterKey     string
	signingKeyUID string
	signingKey    string
	sanitizer     *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	masterKey := os.Getenv("MEILI_MASTER_KEY")
	if masterKey == "" {
		log.Println("WARNING: MEILI_MASTER_KEY is not set.")
	}

	s := &searchService{
		client:    client,
		masterKey: masterKey,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *searchService) initIndexes() {
	filterableAttrs := []string{"country_code", "status"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(tripsIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update trips filterable attributes: %v", err)
	}

	sortableAttrs := []string{"completed_at", "views"}
	if _, err := s.client.Index(tripsIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update trips sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

func (s *searchService) initSigningKey() {
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{
		Limit: 20,
	})
	if err != nil {
		log.Printf("Failed to get meilisearch keys: %v", err)
		return
	}

	for _, key := range resp.Results {
		if key.Name == "TenantTokenSigner" {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			log.Println("Found existing Meilisearch signing key")
			return
		}
	}

	expiry := time.Now().AddDate(100, 0, 0)

	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Key to sign tenant tokens",
		Name:        "TenantTokenSigner",
		Actions:     []string{"search"},
		Indexes:     []string{tripsIndex},
		ExpiresAt:   expiry,
	})
	if err != nil {
		log.Printf("Failed to create signing key: %v", err)
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
	log.Println("Created new Meilisearch signing key")
}

// TripDoc is the indexed shape of a public trip.
type TripDoc struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CountryCode string          `json:"country_code"`
	Destination string          `json:"destination"`
	Views       int             `json:"views"`
	CompletedAt int64           `json:"completed_at"`
	Author      meiliUserSubset `json:"author"`
}

type meiliUserSubset struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

func (s *searchService) cleanContentForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)
	cleanText = strings.Join(strings.Fields(cleanText), " ")

	return cleanText
}

func (s *searchService) IndexTrip(trip *entity.Trip) error {
	if trip.Visibility != entity.TripVisibilityPublic {
		return fmt.Errorf("refusing to index non-public trip %s", trip.ID)
	}

	doc := TripDoc{
		ID:          trip.ID.String(),
		Title:       trip.Title,
		Description: s.cleanContentForIndex(trip.Description),
		Status:      trip.Status,
		Views:       trip.Views,
		Author: meiliUserSubset{
			Username:  trip.User.Username,
			AvatarURL: getStringOrEmpty(trip.User.AvatarURL),
		},
	}
	if trip.Destination != nil {
		doc.CountryCode = trip.Destination.CountryCode
		doc.Destination = trip.Destination.Name
	}
	if trip.CompletedAt != nil {
		doc.CompletedAt = trip.CompletedAt.Unix()
	}

	task, err := s.client.Index(tripsIndex).AddDocuments([]TripDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed trip %s, task id: %d", trip.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteTrip(id string) error {
	_, err := s.client.Index(tripsIndex).DeleteDocument(id)
	return err
}

func (s *searchService) SearchTrips(query, countryCode string, limit int64) ([]TripDoc, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	req := &meilisearch.SearchRequest{
		Limit: limit,
	}
	if countryCode != "" {
		req.Filter = fmt.Sprintf("country_code = %q", strings.ToUpper(countryCode))
	}

	resp, err := s.client.Index(tripsIndex).Search(query, req)
	if err != nil {
		return nil, err
	}

	docs := make([]TripDoc, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc TripDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *searchService) GenerateSearchToken() (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	// Public trips only live in the index, so no per-role filter is needed
	searchRules := map[string]any{
		tripsIndex: map[string]any{"filter": nil},
	}

	token, err := s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

func getStringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}
