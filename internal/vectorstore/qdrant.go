package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/qdrant/go-client/qdrant"

	"github.com/athaapa/clamp/internal/contextutil"
)

// QdrantStore implements VectorStore using Qdrant.
type QdrantStore struct {
	client *qdrant.Client
}

// NewQdrantStore creates a new Qdrant vector store client.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port (typically 6334) will be derived from the HTTP port.
func NewQdrantStore(urlStr string) (*QdrantStore, error) {
	host, port, err := grpcAddress(urlStr)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{
		client: client,
	}, nil
}

// grpcAddress derives the gRPC host and port from a Qdrant HTTP URL.
func grpcAddress(urlStr string) (string, int, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334 // Default gRPC port
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			// gRPC port is HTTP port + 1
			port = httpPort + 1
		}
	}
	return host, port, nil
}

// Close closes the Qdrant client connection.
func (s *QdrantStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Health performs a single health check against Qdrant.
func (s *QdrantStore) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}
	return nil
}

// WaitHealthy retries Health with exponential backoff until Qdrant answers or
// maxElapsed passes. Only used at startup; engine operations are never retried.
func (s *QdrantStore) WaitHealthy(ctx context.Context, maxElapsed time.Duration) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = maxElapsed

	return backoff.Retry(func() error {
		return s.Health(ctx)
	}, backoff.WithContext(exponentialBackoff, ctx))
}

// Upload inserts points into the collection and waits for the write to be applied.
func (s *QdrantStore) Upload(ctx context.Context, collection string, points []Point) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, 0, len(points))
	for _, point := range points {
		qdrantPoint := &qdrant.PointStruct{
			Id:      pointID(point.ID),
			Vectors: qdrant.NewVectors(point.Vec...),
		}

		if len(point.Meta) > 0 {
			payload, err := qdrant.TryValueMap(point.Meta)
			if err != nil {
				return fmt.Errorf("invalid payload for point %s: %w", point.ID, err)
			}
			qdrantPoint.Payload = payload
		}

		qdrantPoints = append(qdrantPoints, qdrantPoint)
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         qdrantPoints,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "collection", collection, "count", len(points), "error", err)
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	logger.InfoContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// SetActive overwrites the active flag of every point tagged with the group
// and commit hash. The update is selected by filter, so no point IDs are needed.
func (s *QdrantStore) SetActive(ctx context.Context, collection, group, commitHash string, active bool) error {
	return s.setActive(ctx, collection, CommitFilter(group, commitHash), active)
}

// Deactivate clears the active flag of every point matching pred.
func (s *QdrantStore) Deactivate(ctx context.Context, collection string, pred Predicate) error {
	return s.setActive(ctx, collection, pred, false)
}

func (s *QdrantStore) setActive(ctx context.Context, collection string, pred Predicate, active bool) error {
	logger := contextutil.LoggerFromContext(ctx)

	_, err := s.client.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Payload:        qdrant.NewValueMap(map[string]any{FieldActive: active}),
		PointsSelector: qdrant.NewPointsSelectorFilter(QdrantFilter(pred)),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to set active flag", "collection", collection, "filter", pred, "active", active, "error", err)
		return fmt.Errorf("failed to set active=%t: %w", active, err)
	}

	logger.DebugContext(ctx, "set active flag", "collection", collection, "filter", pred, "active", active)
	return nil
}

// Count returns the exact number of points matching pred.
func (s *QdrantStore) Count(ctx context.Context, collection string, pred Predicate) (int, error) {
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: collection,
		Filter:         QdrantFilter(pred),
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return int(count), nil
}

// Search performs a similarity search restricted to points matching pred.
func (s *QdrantStore) Search(ctx context.Context, collection string, query []float32, k int, pred Predicate) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	queryReq := &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if filter := QdrantFilter(pred); filter != nil {
		queryReq.Filter = filter
	}

	scoredPoints, err := s.client.Query(ctx, queryReq)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "collection", collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	results := make([]SearchResult, 0, len(scoredPoints))
	for _, result := range scoredPoints {
		meta := make(map[string]any)
		if result.Payload != nil {
			meta = convertPayloadToMap(result.Payload)
		}

		results = append(results, SearchResult{
			PointID: pointIDString(result.Id),
			Score:   result.Score,
			Meta:    meta,
		})
	}

	logger.InfoContext(ctx, "search completed", "collection", collection, "k", k, "results", len(results))
	return results, nil
}

// CollectionExists checks if a collection exists.
func (s *QdrantStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return false, fmt.Errorf("failed to check collection existence: %w", err)
	}
	return exists, nil
}

// EnsureCollection ensures a collection exists with the specified vector size.
// If the collection exists, validates that the vector size matches.
// If it doesn't exist, creates it along with payload indexes on the version fields.
func (s *QdrantStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.CollectionExists(ctx, collection)
	if err != nil {
		return err
	}

	if !exists {
		logger.InfoContext(ctx, "creating collection", "collection", collection, "vector_size", vectorSize)
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(vectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		if err := s.createPayloadIndexes(ctx, collection); err != nil {
			return err
		}
		logger.InfoContext(ctx, "collection created", "collection", collection, "vector_size", vectorSize)
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}

	config := info.Config
	if config == nil || config.Params == nil {
		return fmt.Errorf("collection config is invalid")
	}

	vectorsConfig := config.Params.GetVectorsConfig()
	if vectorsConfig == nil {
		return fmt.Errorf("collection vectors config is invalid")
	}

	params := vectorsConfig.GetParams()
	if params == nil {
		return fmt.Errorf("collection vector params are invalid")
	}

	if int(params.Size) != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, params.Size)
	}

	logger.InfoContext(ctx, "collection validated", "collection", collection, "vector_size", vectorSize)
	return nil
}

// createPayloadIndexes indexes the fields every version-control filter uses.
func (s *QdrantStore) createPayloadIndexes(ctx context.Context, collection string) error {
	indexes := []struct {
		field string
		typ   qdrant.FieldType
	}{
		{FieldGroup, qdrant.FieldType_FieldTypeKeyword},
		{FieldCommit, qdrant.FieldType_FieldTypeKeyword},
		{FieldActive, qdrant.FieldType_FieldTypeBool},
	}

	for _, idx := range indexes {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: collection,
			FieldName:      idx.field,
			FieldType:      idx.typ.Enum(),
		})
		if err != nil {
			return fmt.Errorf("failed to create index for field %s: %w", idx.field, err)
		}
	}
	return nil
}

// pointID maps a document ID to a Qdrant point ID. Decimal strings become
// numeric IDs; anything else is treated as a UUID.
func pointID(id string) *qdrant.PointId {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return qdrant.NewIDNum(n)
	}
	return qdrant.NewID(id)
}

func pointIDString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if uuid := id.GetUuid(); uuid != "" {
		return uuid
	}
	return strconv.FormatUint(id.GetNum(), 10)
}

// convertPayloadToMap converts Qdrant payload to map[string]any.
func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		result[k] = convertValue(v)
	}
	return result
}

// convertValue converts a Qdrant Value to Go any type.
func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(val.StructValue.Fields)
	default:
		return nil
	}
}
