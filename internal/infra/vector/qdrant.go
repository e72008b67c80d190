package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	domain "github.com/bkonan/veilleur/internal/domain/rag"
)

// Qdrant stores document embeddings in a Qdrant collection over gRPC.
type Qdrant struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	collection  string
	vectorSize  uint64
}

func NewQdrant(host string, port int, collection string, vectorSize uint64) (*Qdrant, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant at %s: %w", addr, err)
	}
	return &Qdrant{
		conn:        conn,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		collection:  collection,
		vectorSize:  vectorSize,
	}, nil
}

// EnsureCollection creates the cosine-distance collection if it is missing.
func (q *Qdrant) EnsureCollection(ctx context.Context) error {
	collections, err := q.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, col := range collections.GetCollections() {
		if col.GetName() == q.collection {
			return nil
		}
	}

	_, err = q.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     q.vectorSize,
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", q.collection, err)
	}
	return nil
}

// Ping lists collections, as a cheap liveness probe.
func (q *Qdrant) Ping(ctx context.Context) error {
	_, err := q.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	return err
}

func (q *Qdrant) Upsert(ctx context.Context, doc domain.Document, vec []float32) error {
	payload := map[string]*qdrantclient.Value{
		"text":   {Kind: &qdrantclient.Value_StringValue{StringValue: doc.Text}},
		"doc_id": {Kind: &qdrantclient.Value_StringValue{StringValue: doc.ID}},
	}
	for k, v := range doc.Metadata {
		payload[k] = &qdrantclient.Value{Kind: &qdrantclient.Value_StringValue{StringValue: v}}
	}

	point := &qdrantclient.PointStruct{
		Id: pointID(doc.ID),
		Vectors: &qdrantclient.Vectors{
			VectorsOptions: &qdrantclient.Vectors_Vector{
				Vector: &qdrantclient.Vector{Data: vec},
			},
		},
		Payload: payload,
	}

	_, err := q.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: q.collection,
		Points:         []*qdrantclient.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("upsert point %s: %w", doc.ID, err)
	}
	return nil
}

func (q *Qdrant) Search(ctx context.Context, vec []float32, limit int, filter domain.SearchFilter) ([]domain.Match, error) {
	req := &qdrantclient.SearchPoints{
		CollectionName: q.collection,
		Vector:         vec,
		Limit:          uint64(limit),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
		},
	}

	var conditions []*qdrantclient.Condition
	if filter.DocumentType != "" {
		conditions = append(conditions, keywordCondition("doc_type", filter.DocumentType))
	}
	if filter.SourceType != "" {
		conditions = append(conditions, keywordCondition("source_type", filter.SourceType))
	}
	if len(conditions) > 0 {
		req.Filter = &qdrantclient.Filter{Must: conditions}
	}

	resp, err := q.points.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}

	matches := make([]domain.Match, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		doc := domain.Document{Metadata: make(map[string]string)}
		for k, v := range point.GetPayload() {
			s := v.GetStringValue()
			switch k {
			case "text":
				doc.Text = s
			case "doc_id":
				doc.ID = s
			default:
				doc.Metadata[k] = s
			}
		}
		// Cosine score is a similarity; callers expect a distance.
		matches = append(matches, domain.Match{Document: doc, Distance: 1 - point.GetScore()})
	}
	return matches, nil
}

func (q *Qdrant) Delete(ctx context.Context, docID string) error {
	_, err := q.points.Delete(ctx, &qdrantclient.DeletePoints{
		CollectionName: q.collection,
		Points: &qdrantclient.PointsSelector{
			PointsSelectorOneOf: &qdrantclient.PointsSelector_Points{
				Points: &qdrantclient.PointsIdsList{
					Ids: []*qdrantclient.PointId{pointID(docID)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("delete point %s: %w", docID, err)
	}
	return nil
}

func (q *Qdrant) Close() error {
	return q.conn.Close()
}

// pointID derives a stable UUID from the document id, since Qdrant point ids
// must be integers or UUIDs while document ids are free-form strings. The
// original id stays in the payload under doc_id.
func pointID(docID string) *qdrantclient.PointId {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(docID))
	return &qdrantclient.PointId{
		PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: id.String()},
	}
}

func keywordCondition(key, value string) *qdrantclient.Condition {
	return &qdrantclient.Condition{
		ConditionOneOf: &qdrantclient.Condition_Field{
			Field: &qdrantclient.FieldCondition{
				Key: key,
				Match: &qdrantclient.Match{
					MatchValue: &qdrantclient.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}
