package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/kabar-app/kabar/model"
	"github.com/kabar-app/kabar/utils"
	Logger "github.com/kabar-app/kabar/utils/log"
	"github.com/pkg/errors"
)

// Store is the persistence surface the recorder needs. Satisfied by
// store.Store.
type Store interface {
	AppendLogHistory(ctx context.Context, entry *model.LogHistory) error
}

// Recorder persists audit entries. It is safe for concurrent use.
type Recorder struct {
	store  Store
	statsd *statsd.Client
}

func NewRecorder(store Store, statsdClient *statsd.Client) *Recorder {
	return &Recorder{
		store:  store,
		statsd: statsdClient,
	}
}

// changesColumn is the JSON shape persisted in LogHistory.Changes.
type changesColumn struct {
	Old     map[string]interface{} `json:"old"`
	New     map[string]interface{} `json:"new"`
	Action  model.AuditAction      `json:"action"`
	Details string                 `json:"details"`
}

// Record appends one audit entry for the mutation of the referenced entity.
// An UPDATE whose diff is empty is a pure no-op write and records nothing. A
// DELETE always records: its diff carries the pre-deletion snapshot under Old
// and an empty New by construction.
func (r *Recorder) Record(ctx context.Context, ref model.EntityRef, changerID int64, changes Changes, action model.AuditAction) error {
	if action == model.AuditActionUpdate && changes.IsEmpty() {
		return nil
	}

	column, err := json.Marshal(changesColumn{
		Old:     changes.Old,
		New:     changes.New,
		Action:  action,
		Details: details(ref, changes, action),
	})
	if err != nil {
		return errors.Wrap(err, "fail to marshal audit changes")
	}

	entry := &model.LogHistory{
		EntityType: string(ref.Kind()),
		EntityID:   ref.EntityID(),
		ChangerID:  utils.Int64Ptr(changerID),
		Changes:    column,
	}
	if err := r.store.AppendLogHistory(ctx, entry); err != nil {
		Logger.Log.Errorln("fail to append audit entry for", ref.Kind(), ref.EntityID(), ":", err)
		utils.IncrCounter(r.statsd, utils.DDogAuditWriteFailure)
		return err
	}
	return nil
}

func details(ref model.EntityRef, changes Changes, action model.AuditAction) string {
	if action == model.AuditActionDelete {
		return fmt.Sprintf("%s deleted.", ref.Kind())
	}

	fields := make([]string, 0, len(changes.New))
	for field := range changes.New {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "Updated attributes: " + strings.Join(fields, ", ")
}
