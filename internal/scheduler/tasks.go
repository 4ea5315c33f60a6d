// Package scheduler runs the background callback reminder pipeline: a
// dispatcher claims due reminders from Postgres and enqueues asynq tasks; a
// worker delivers them.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskCallbackReminder = "leads.callback.reminder"

type CallbackReminderPayload struct {
	LeadID            string    `json:"leadId"`
	LeadName          string    `json:"leadName"`
	AccommodationName string    `json:"accommodationName"`
	OperatorID        string    `json:"operatorId"`
	ScheduledFor      time.Time `json:"scheduledFor"`
}

func NewCallbackReminderTask(payload CallbackReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCallbackReminder, data), nil
}

func ParseCallbackReminderPayload(task *asynq.Task) (CallbackReminderPayload, error) {
	var payload CallbackReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CallbackReminderPayload{}, err
	}
	return payload, nil
}
