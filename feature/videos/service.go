package videos

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"video-catalog/core/metrics"
	"video-catalog/core/pagination"
	"video-catalog/core/reconcile"
	"video-catalog/core/storage"
	"video-catalog/feature/videos/models"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const exportBatchSize = 500

// Service handles video catalog operations.
type Service struct {
	db         *gorm.DB
	store      *Store
	reconciler *reconcile.Reconciler[*models.Video]
	client     storage.Client
	bucket     string
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewService creates a new video service. client and m may be nil.
func NewService(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger, m *metrics.Metrics) *Service {
	r := reconcile.New[*models.Video]()
	r.MissingIdentifierReason = MissingVideoIDReason
	return &Service{
		db:         db,
		store:      NewStore(db),
		reconciler: r,
		client:     client,
		bucket:     bucket,
		logger:     logger,
		metrics:    m,
	}
}

// List returns one page of videos matching f and the total match count.
func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*models.Video, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Video{}).Scopes(f.Scope()).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	var videos []*models.Video
	err := s.db.WithContext(ctx).Scopes(f.Scope(), f.Order(), p.Scope()).Find(&videos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, count, nil
}

// Get resolves key as a video_id, then as a primary key.
func (s *Service) Get(ctx context.Context, key string) (*models.Video, error) {
	return reconcile.Resolve[*models.Video](ctx, s.store, key)
}

// BulkCreate creates every record; existing video_ids fail.
func (s *Service) BulkCreate(ctx context.Context, records []reconcile.Record) reconcile.BatchResult[*models.Video] {
	result := s.reconciler.CreateAll(ctx, records, s.store)
	s.observe("create", result)
	return result
}

// BulkUpsert updates records whose video_id exists and creates the rest.
func (s *Service) BulkUpsert(ctx context.Context, records []reconcile.Record) reconcile.BatchResult[*models.Video] {
	result := s.reconciler.Reconcile(ctx, records, s.store)
	s.observe("upsert", result)
	return result
}

func (s *Service) observe(operation string, result reconcile.BatchResult[*models.Video]) {
	outcome := result.Outcome()
	s.metrics.ObserveBatch(operation, outcome.String(), len(result.Created), len(result.Updated), len(result.Failed))
	s.logger.Info("Video batch processed",
		zap.String("operation", operation),
		zap.String("outcome", outcome.String()),
		zap.Int("created", len(result.Created)),
		zap.Int("updated", len(result.Updated)),
		zap.Int("failed", len(result.Failed)))
}

// Modify resolves key and applies fields. partial selects PATCH semantics.
func (s *Service) Modify(ctx context.Context, key string, fields reconcile.Fields, partial bool) (*models.Video, error) {
	v, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.store.Apply(ctx, v, fields, partial)
}

// Delete resolves key and removes the video.
func (s *Service) Delete(ctx context.Context, key string) error {
	v, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, v.ID)
}

// DeleteAll removes the whole catalog.
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Warn("Deleted all videos", zap.Int64("count", n))
	return n, nil
}

// ImportCatalog reads {"videos": [...]} from r and reconciles it.
func (s *Service) ImportCatalog(ctx context.Context, r io.Reader) (reconcile.BatchResult[*models.Video], error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return reconcile.BatchResult[*models.Video]{}, fmt.Errorf("failed to read catalog: %w", err)
	}
	records, err := DecodeBatch(body)
	if err != nil {
		return reconcile.BatchResult[*models.Video]{}, err
	}
	return s.BulkUpsert(ctx, records), nil
}

// ExportCatalog writes every video to w as {"videos": [...]}, readable by ImportCatalog.
func (s *Service) ExportCatalog(ctx context.Context, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(`{"videos":[`); err != nil {
		return 0, err
	}

	total := 0
	var batch []*models.Video
	res := s.db.WithContext(ctx).Order("id").FindInBatches(&batch, exportBatchSize, func(_ *gorm.DB, _ int) error {
		for _, v := range batch {
			b, err := json.Marshal(v)
			if err != nil {
				return err
			}
			if total > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.Write(b); err != nil {
				return err
			}
			total++
		}
		return nil
	})
	if res.Error != nil {
		return total, fmt.Errorf("failed to export videos: %w", res.Error)
	}

	if _, err := bw.WriteString("]}"); err != nil {
		return total, err
	}
	return total, bw.Flush()
}

// ImportObject reconciles a catalog stored in the bucket under key.
func (s *Service) ImportObject(ctx context.Context, key string) (reconcile.BatchResult[*models.Video], error) {
	if s.client == nil {
		return reconcile.BatchResult[*models.Video]{}, fmt.Errorf("storage is not configured")
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return reconcile.BatchResult[*models.Video]{}, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer obj.Close()

	return s.ImportCatalog(ctx, obj)
}

// ExportObject writes a catalog snapshot to the bucket under key.
func (s *Service) ExportObject(ctx context.Context, key string) (int, error) {
	if s.client == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	var buf bytes.Buffer
	n, err := s.ExportCatalog(ctx, &buf)
	if err != nil {
		return 0, err
	}

	size := int64(buf.Len())
	_, err = s.client.PutObject(ctx, s.bucket, key, &buf, size, minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return 0, fmt.Errorf("failed to upload %s: %w", key, err)
	}
	s.logger.Info("Catalog exported", zap.String("object", key), zap.Int("videos", n), zap.Int64("bytes", size))
	return n, nil
}
