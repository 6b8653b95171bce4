package api

import (
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"kanban-api/board"
	"kanban-api/domain"
)

// commandRecorder turns board session callbacks into queued commands. One
// recorder serves a single request.
type commandRecorder struct {
	title string
	moves []board.Move
	cmds  []domain.Command
	err   error
}

var _ board.Callbacks = (*commandRecorder)(nil)

func (r *commandRecorder) OnTaskMove(taskID, columnID string) {
	r.moves = append(r.moves, board.Move{TaskID: taskID, ColumnID: columnID})
}

func (r *commandRecorder) OnTaskCreate(columnID string) {
	r.add(domain.CommandTaskCreateRequest, domain.TaskCreateRequestedData{
		ColumnID: columnID,
		Title:    r.title,
	})
}

// OnTaskClick is a no-op: opening a task is a client concern.
func (r *commandRecorder) OnTaskClick(domain.Task) {}

// resolveMoves converts recorded moves to commands, taking the origin column
// from the drop result.
func (r *commandRecorder) resolveMoves(drop board.Move) {
	for _, mv := range r.moves {
		data := domain.TaskMovedData{TaskID: mv.TaskID, ColumnID: mv.ColumnID}
		if mv.TaskID == drop.TaskID {
			data.FromColumnID = drop.FromColumnID
		}
		r.add(domain.CommandTaskMoved, data)
	}
	r.moves = nil
}

func (r *commandRecorder) add(typ string, data any) {
	raw, err := sonic.Marshal(data)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return
	}
	r.cmds = append(r.cmds, domain.Command{
		EntityType: domain.EntityTypeTask,
		Type:       typ,
		Data:       sonic.NoCopyRawMessage(raw),
	})
}

// finalizeCommands stamps ids, idempotency keys and timestamps. The first
// command carries key; later ones derive from it so a replay maps onto the
// same set.
func finalizeCommands(cmds []domain.Command, key string) string {
	if key == "" {
		key = uuid.NewString()
	}
	for i := range cmds {
		k := key
		if i > 0 {
			k = key + "." + strconv.Itoa(i)
		}
		cmds[i].IdempotencyKey = k
		cmds[i].ID = k
		cmds[i].Timestamp = nextTimestamp()
	}
	return key
}
