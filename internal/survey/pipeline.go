package survey

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ayberkarici/fucom/internal/fucom"
	"github.com/ayberkarici/fucom/internal/sheet"
	"github.com/ayberkarici/fucom/internal/storage"
)

const tracerName = "github.com/ayberkarici/fucom/internal/survey"

const defaultUploadTimeout = 60 * time.Second

type SubmitterConfig struct {
	Catalog fucom.Catalog
	// Strict runs full response validation instead of the full-name check.
	Strict bool
	// AppendTimestamp suffixes file names with the submission time.
	AppendTimestamp bool
	UploadTimeout   time.Duration
}

// Result describes a stored submission.
type Result struct {
	Token    string
	FileName string
	ObjectID string
	ViewLink string
}

// Submitter turns a response into a stored spreadsheet: validate, render,
// name, upload, record. Each call is independent; identical concurrent
// submissions produce independent documents.
type Submitter struct {
	cfg      SubmitterConfig
	mapper   sheet.Mapper
	uploader storage.Uploader
	records  RecordStore
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

func NewSubmitter(cfg SubmitterConfig, uploader storage.Uploader, records RecordStore, logger zerolog.Logger) *Submitter {
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = defaultUploadTimeout
	}
	if records == nil {
		records = NewMemoryRecordStore()
	}
	return &Submitter{
		cfg:      cfg,
		uploader: uploader,
		records:  records,
		logger:   logger.With().Str("component", "submitter").Logger(),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

func (s *Submitter) Records() RecordStore { return s.records }

func (s *Submitter) Submit(ctx context.Context, resp *fucom.Response) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Submit")
	defer span.End()

	if err := s.validate(resp); err != nil {
		serr := validationError(err)
		failSpan(span, serr)
		s.logger.Info().Str("reason", serr.Message).Msg("submission rejected")
		return Result{}, serr
	}

	now := s.now()
	res := Result{Token: generateToken(), FileName: s.fileName(resp, now)}
	span.SetAttributes(
		attribute.String("fucom.token", res.Token),
		attribute.String("fucom.file_name", res.FileName),
	)

	doc, err := s.render(ctx, resp)
	if err != nil {
		serr := documentError(err)
		failSpan(span, serr)
		s.record(ctx, res, now, serr)
		return Result{}, serr
	}

	up, err := s.upload(ctx, doc, res.FileName)
	if err != nil {
		serr := uploadError(err)
		failSpan(span, serr)
		s.record(ctx, res, now, serr)
		return Result{}, serr
	}
	res.ObjectID = up.ObjectID
	res.ViewLink = up.ViewLink
	s.record(ctx, res, now, nil)
	return res, nil
}

func (s *Submitter) validate(resp *fucom.Response) error {
	if s.cfg.Strict {
		return fucom.Validate(s.cfg.Catalog, resp)
	}
	return fucom.CheckFullName(resp.Demographics)
}

func (s *Submitter) fileName(resp *fucom.Response, at time.Time) string {
	if s.cfg.AppendTimestamp {
		return fucom.TimestampedFileName(resp.Demographics.FullName, at)
	}
	return fucom.FileName(resp.Demographics.FullName)
}

func (s *Submitter) render(ctx context.Context, resp *fucom.Response) ([]byte, error) {
	_, span := s.tracer.Start(ctx, "sheet.Render")
	defer span.End()
	doc, err := s.mapper.Render(resp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("fucom.document_bytes", len(doc)))
	return doc, nil
}

func (s *Submitter) upload(ctx context.Context, doc []byte, name string) (storage.UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.UploadTimeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "storage.Upload")
	defer span.End()
	res, err := s.uploader.Upload(ctx, doc, name, sheet.ContentType)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload failed")
		return storage.UploadResult{}, err
	}
	span.SetAttributes(attribute.String("fucom.object_id", res.ObjectID))
	return res, nil
}

// record stores the outcome. A storage failure is logged and does not change
// the outcome reported to the caller.
func (s *Submitter) record(ctx context.Context, res Result, at time.Time, serr *SubmitError) {
	rec := Record{
		Token:     res.Token,
		FileName:  res.FileName,
		ObjectID:  res.ObjectID,
		ViewLink:  res.ViewLink,
		Status:    StatusUploaded,
		CreatedAt: at,
	}
	var ev *zerolog.Event
	if serr != nil {
		rec.Status = StatusFailed
		rec.ErrorCode = serr.Code
		if rec.ErrorCode == "" {
			rec.ErrorCode = string(serr.Kind)
		}
		rec.ErrorMessage = serr.Message
		ev = s.logger.Error().Err(serr.Err).Str("code", rec.ErrorCode)
	} else {
		ev = s.logger.Info()
	}
	ev.Str("token", rec.Token).Str("file", rec.FileName).Str("status", string(rec.Status)).Msg("submission")

	if err := s.records.Save(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn().Err(err).Str("token", rec.Token).Msg("save submission record")
	}
}

func failSpan(span trace.Span, serr *SubmitError) {
	span.RecordError(serr)
	span.SetStatus(codes.Error, string(serr.Kind))
}
