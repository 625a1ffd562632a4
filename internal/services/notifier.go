package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"teamhub/internal/repositories"
)

type NotificationKind string

const (
	TaskCreatedNotification NotificationKind = "task_created"
	TaskUpdatedNotification NotificationKind = "task_updated"
)

type TaskNotification struct {
	Kind        NotificationKind
	RecipientID int64
	ActorID     int64
	TaskTitle   string
	BoardName   string
}

// TaskNotifier decouples notification delivery from request handling: state
// mutations enqueue and move on, a single worker drains the queue and fans
// out to email plus any linked Telegram chat. Delivery failures are logged
// and never reach the caller of the mutating operation.
type TaskNotifier struct {
	ch   chan TaskNotification
	done chan struct{}

	users repositories.UserRepository
	links repositories.TelegramLinkRepository
	email EmailService
	tg    *TelegramService
}

func NewTaskNotifier(
	users repositories.UserRepository,
	links repositories.TelegramLinkRepository,
	email EmailService,
	tg *TelegramService,
) *TaskNotifier {
	return &TaskNotifier{
		ch:    make(chan TaskNotification, 64),
		done:  make(chan struct{}),
		users: users,
		links: links,
		email: email,
		tg:    tg,
	}
}

func (n *TaskNotifier) Start() {
	go func() {
		defer close(n.done)
		for ev := range n.ch {
			n.deliver(ev)
		}
	}()
}

// Close stops accepting events and waits for the queue to drain.
func (n *TaskNotifier) Close() {
	close(n.ch)
	<-n.done
}

// Notify enqueues without blocking. Events addressed to the acting user are
// skipped; a full queue drops the event with a log line.
func (n *TaskNotifier) Notify(ev TaskNotification) {
	if ev.RecipientID == 0 || ev.RecipientID == ev.ActorID {
		return
	}
	select {
	case n.ch <- ev:
	default:
		log.Printf("[notify][drop] queue full kind=%s recipient=%d task=%q", ev.Kind, ev.RecipientID, ev.TaskTitle)
	}
}

func (n *TaskNotifier) deliver(ev TaskNotification) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := n.users.GetByID(ctx, ev.RecipientID)
	if err != nil || user == nil {
		log.Printf("[notify][err] recipient=%d lookup failed: %v", ev.RecipientID, err)
		return
	}

	if n.email != nil {
		var eerr error
		switch ev.Kind {
		case TaskUpdatedNotification:
			eerr = n.email.SendTaskUpdatedEmail(user.Email, ev.TaskTitle, ev.BoardName)
		default:
			eerr = n.email.SendTaskAssignedEmail(user.Email, ev.TaskTitle, ev.BoardName)
		}
		if eerr != nil {
			log.Printf("[notify][err] email recipient=%d: %v", ev.RecipientID, eerr)
		}
	}

	if n.tg != nil && n.links != nil {
		chatID, err := n.links.ChatIDForUser(ctx, ev.RecipientID)
		if err != nil {
			log.Printf("[notify][err] telegram link recipient=%d: %v", ev.RecipientID, err)
			return
		}
		if chatID != 0 {
			text := fmt.Sprintf("📌 <b>%s</b>\nBoard: %s", ev.TaskTitle, ev.BoardName)
			if ev.Kind == TaskUpdatedNotification {
				text = fmt.Sprintf("✏️ <b>%s</b>\nBoard: %s", ev.TaskTitle, ev.BoardName)
			}
			if err := n.tg.SendMessage(chatID, text); err != nil {
				log.Printf("[notify][err] telegram recipient=%d: %v", ev.RecipientID, err)
			}
		}
	}
}
