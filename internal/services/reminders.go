package services

import (
	"context"
	"log"
	"time"

	"studyhub-backend/internal/models"
	"studyhub-backend/internal/repository"
)

const (
	reminderWindow       = 24 * time.Hour
	reminderPollInterval = 1 * time.Hour
)

// ReminderScheduler periodically mails users about tasks due within the next
// day. A task is reminded at most once; the reminded_at column records it.
type ReminderScheduler struct {
	taskRepo *repository.TaskRepo
	userRepo *repository.UserRepo
	email    *EmailService
	stopChan chan struct{}
}

func NewReminderScheduler(taskRepo *repository.TaskRepo, userRepo *repository.UserRepo, email *EmailService) *ReminderScheduler {
	return &ReminderScheduler{
		taskRepo: taskRepo,
		userRepo: userRepo,
		email:    email,
		stopChan: make(chan struct{}),
	}
}

func (s *ReminderScheduler) Start() {
	if s.taskRepo == nil || s.email == nil {
		return
	}
	go s.loop()
	log.Printf("Reminder scheduler started")
}

func (s *ReminderScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *ReminderScheduler) loop() {
	// Run on startup as well as by interval.
	s.runOnce(context.Background(), time.Now().UTC())

	ticker := time.NewTicker(reminderPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runOnce(context.Background(), time.Now().UTC())
		}
	}
}

func (s *ReminderScheduler) runOnce(ctx context.Context, now time.Time) {
	due, err := s.taskRepo.ListDueUnreminded(ctx, now, now.Add(reminderWindow))
	if err != nil {
		log.Printf("task reminders: failed to list due tasks: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	// Group by owner so each user gets one digest.
	byUser := make(map[string][]int)
	for i, task := range due {
		byUser[task.UserID.String()] = append(byUser[task.UserID.String()], i)
	}

	for _, indices := range byUser {
		owner := due[indices[0]].UserID

		user, err := s.userRepo.GetByID(ctx, owner)
		if err != nil {
			log.Printf("task reminders: failed to load user %s: %v", owner, err)
			continue
		}

		tasks := make([]*models.Task, 0, len(indices))
		for _, i := range indices {
			tasks = append(tasks, due[i])
		}

		if err := s.email.SendTaskReminder(user.Email, user.FullName, tasks); err != nil {
			continue
		}

		for _, i := range indices {
			if err := s.taskRepo.MarkReminded(ctx, due[i].ID, now); err != nil {
				log.Printf("task reminders: failed to mark task %s: %v", due[i].ID, err)
			}
		}
	}
}
