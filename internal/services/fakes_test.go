package services

import (
	"context"
	"time"

	"teamhub/internal/models"
	"teamhub/internal/repositories"
)

type fakeProjectRepo struct {
	storeFn        func(context.Context, *models.Project) error
	findByIDFn     func(context.Context, int64) (*models.Project, error)
	findAllFn      func(context.Context, models.ProjectFilter) ([]models.Project, error)
	updateFn       func(context.Context, *models.Project) error
	deleteFn       func(context.Context, int64) error
	addMemberFn    func(context.Context, *models.ProjectMember) (bool, error)
	listMembersFn  func(context.Context, int64) ([]models.ProjectMember, error)
	findMemberFn   func(context.Context, int64, int64) (*models.ProjectMember, error)
	removeMemberFn func(context.Context, int64, int64) error
}

func (f *fakeProjectRepo) Store(ctx context.Context, p *models.Project) error {
	if f.storeFn != nil {
		return f.storeFn(ctx, p)
	}
	return nil
}
func (f *fakeProjectRepo) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeProjectRepo) FindAll(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}
func (f *fakeProjectRepo) Update(ctx context.Context, p *models.Project) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}
func (f *fakeProjectRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}
func (f *fakeProjectRepo) AddMember(ctx context.Context, m *models.ProjectMember) (bool, error) {
	if f.addMemberFn != nil {
		return f.addMemberFn(ctx, m)
	}
	return true, nil
}
func (f *fakeProjectRepo) ListMembers(ctx context.Context, projectID int64) ([]models.ProjectMember, error) {
	if f.listMembersFn != nil {
		return f.listMembersFn(ctx, projectID)
	}
	return nil, nil
}
func (f *fakeProjectRepo) FindMember(ctx context.Context, projectID, userID int64) (*models.ProjectMember, error) {
	if f.findMemberFn != nil {
		return f.findMemberFn(ctx, projectID, userID)
	}
	return nil, nil
}
func (f *fakeProjectRepo) RemoveMember(ctx context.Context, projectID, userID int64) error {
	if f.removeMemberFn != nil {
		return f.removeMemberFn(ctx, projectID, userID)
	}
	return nil
}

type fakeSprintRepo struct {
	storeFn            func(context.Context, *models.Sprint) error
	findByIDFn         func(context.Context, int64) (*models.Sprint, error)
	listByProjectFn    func(context.Context, int64) ([]models.Sprint, error)
	updateFn           func(context.Context, *models.Sprint) error
	deleteFn           func(context.Context, int64) error
	transitionStatusFn func(context.Context, int64, models.SprintStatus, models.SprintStatus) (bool, error)
}

func (f *fakeSprintRepo) Store(ctx context.Context, s *models.Sprint) error {
	if f.storeFn != nil {
		return f.storeFn(ctx, s)
	}
	return nil
}
func (f *fakeSprintRepo) FindByID(ctx context.Context, id int64) (*models.Sprint, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeSprintRepo) ListByProject(ctx context.Context, projectID int64) ([]models.Sprint, error) {
	if f.listByProjectFn != nil {
		return f.listByProjectFn(ctx, projectID)
	}
	return nil, nil
}
func (f *fakeSprintRepo) Update(ctx context.Context, s *models.Sprint) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, s)
	}
	return nil
}
func (f *fakeSprintRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}
func (f *fakeSprintRepo) TransitionStatus(ctx context.Context, id int64, from, to models.SprintStatus) (bool, error) {
	if f.transitionStatusFn != nil {
		return f.transitionStatusFn(ctx, id, from, to)
	}
	return true, nil
}

type fakeBoardRepo struct {
	storeWithSectionsFn func(context.Context, *models.Board, []string) ([]models.Section, error)
	findByIDFn          func(context.Context, int64) (*models.Board, error)
	listByProjectFn     func(context.Context, int64) ([]models.Board, error)
	deleteFn            func(context.Context, int64) error
	listSectionsFn      func(context.Context, int64) ([]models.Section, error)
	findSectionFn       func(context.Context, int64) (*models.Section, error)
	firstSectionFn      func(context.Context, int64) (*models.Section, error)
}

func (f *fakeBoardRepo) StoreWithSections(ctx context.Context, b *models.Board, names []string) ([]models.Section, error) {
	if f.storeWithSectionsFn != nil {
		return f.storeWithSectionsFn(ctx, b, names)
	}
	return nil, nil
}
func (f *fakeBoardRepo) FindByID(ctx context.Context, id int64) (*models.Board, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeBoardRepo) ListByProject(ctx context.Context, projectID int64) ([]models.Board, error) {
	if f.listByProjectFn != nil {
		return f.listByProjectFn(ctx, projectID)
	}
	return nil, nil
}
func (f *fakeBoardRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}
func (f *fakeBoardRepo) ListSections(ctx context.Context, boardID int64) ([]models.Section, error) {
	if f.listSectionsFn != nil {
		return f.listSectionsFn(ctx, boardID)
	}
	return nil, nil
}
func (f *fakeBoardRepo) FindSection(ctx context.Context, sectionID int64) (*models.Section, error) {
	if f.findSectionFn != nil {
		return f.findSectionFn(ctx, sectionID)
	}
	return nil, nil
}
func (f *fakeBoardRepo) FirstSection(ctx context.Context, boardID int64) (*models.Section, error) {
	if f.firstSectionFn != nil {
		return f.firstSectionFn(ctx, boardID)
	}
	return nil, nil
}

type fakeTaskRepo struct {
	storeFn                 func(context.Context, *models.Task) error
	findByIDFn              func(context.Context, int64) (*models.Task, error)
	findAllFn               func(context.Context, models.TaskFilter) ([]models.Task, error)
	updateFn                func(context.Context, *models.Task) error
	replaceAssigneesFn      func(context.Context, int64, []int64) error
	deleteFn                func(context.Context, int64) error
	completeFn              func(context.Context, int64, int64, time.Time) error
	accessInfoFn            func(context.Context, int64) (*repositories.TaskAccessInfo, error)
	getChecklistFn          func(context.Context, int64) (models.Checklist, error)
	updateChecklistFn       func(context.Context, int64, []models.ChecklistItem, int64) (bool, error)
	addCommentFn            func(context.Context, *models.Comment) error
	listCommentsFn          func(context.Context, int64) ([]models.Comment, error)
	addSubtaskFn            func(context.Context, *models.Subtask) error
	listSubtasksFn          func(context.Context, int64) ([]models.Subtask, error)
	attachDocumentFn        func(context.Context, int64, int64) error
	listAttachedDocumentsFn func(context.Context, int64) ([]models.Document, error)
}

func (f *fakeTaskRepo) Store(ctx context.Context, t *models.Task) error {
	if f.storeFn != nil {
		return f.storeFn(ctx, t)
	}
	return nil
}
func (f *fakeTaskRepo) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeTaskRepo) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}
func (f *fakeTaskRepo) Update(ctx context.Context, t *models.Task) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, t)
	}
	return nil
}
func (f *fakeTaskRepo) ReplaceAssignees(ctx context.Context, taskID int64, assigneeIDs []int64) error {
	if f.replaceAssigneesFn != nil {
		return f.replaceAssigneesFn(ctx, taskID, assigneeIDs)
	}
	return nil
}
func (f *fakeTaskRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}
func (f *fakeTaskRepo) Complete(ctx context.Context, id, byID int64, at time.Time) error {
	if f.completeFn != nil {
		return f.completeFn(ctx, id, byID, at)
	}
	return nil
}
func (f *fakeTaskRepo) AccessInfo(ctx context.Context, taskID int64) (*repositories.TaskAccessInfo, error) {
	if f.accessInfoFn != nil {
		return f.accessInfoFn(ctx, taskID)
	}
	return nil, nil
}
func (f *fakeTaskRepo) GetChecklist(ctx context.Context, taskID int64) (models.Checklist, error) {
	if f.getChecklistFn != nil {
		return f.getChecklistFn(ctx, taskID)
	}
	return models.Checklist{}, nil
}
func (f *fakeTaskRepo) UpdateChecklist(ctx context.Context, taskID int64, items []models.ChecklistItem, expectedVersion int64) (bool, error) {
	if f.updateChecklistFn != nil {
		return f.updateChecklistFn(ctx, taskID, items, expectedVersion)
	}
	return true, nil
}
func (f *fakeTaskRepo) AddComment(ctx context.Context, c *models.Comment) error {
	if f.addCommentFn != nil {
		return f.addCommentFn(ctx, c)
	}
	return nil
}
func (f *fakeTaskRepo) ListComments(ctx context.Context, taskID int64) ([]models.Comment, error) {
	if f.listCommentsFn != nil {
		return f.listCommentsFn(ctx, taskID)
	}
	return nil, nil
}
func (f *fakeTaskRepo) AddSubtask(ctx context.Context, s *models.Subtask) error {
	if f.addSubtaskFn != nil {
		return f.addSubtaskFn(ctx, s)
	}
	return nil
}
func (f *fakeTaskRepo) ListSubtasks(ctx context.Context, taskID int64) ([]models.Subtask, error) {
	if f.listSubtasksFn != nil {
		return f.listSubtasksFn(ctx, taskID)
	}
	return nil, nil
}
func (f *fakeTaskRepo) AttachDocument(ctx context.Context, taskID, documentID int64) error {
	if f.attachDocumentFn != nil {
		return f.attachDocumentFn(ctx, taskID, documentID)
	}
	return nil
}
func (f *fakeTaskRepo) ListAttachedDocuments(ctx context.Context, taskID int64) ([]models.Document, error) {
	if f.listAttachedDocumentsFn != nil {
		return f.listAttachedDocumentsFn(ctx, taskID)
	}
	return nil, nil
}

type fakeChatRepo struct {
	createRoomFn         func(context.Context, *models.ChatRoom, []int64) error
	findRoomFn           func(context.Context, int64) (*models.ChatRoom, error)
	listRoomsForUserFn   func(context.Context, int64) ([]models.ChatRoom, error)
	isParticipantFn      func(context.Context, int64, int64) (bool, error)
	participantsFn       func(context.Context, int64) ([]models.ChatParticipant, error)
	postMessageFn        func(context.Context, int64, int64, string) (*models.ChatMessage, error)
	markRoomReadFn       func(context.Context, int64, int64) error
	listMessagesBeforeFn func(context.Context, int64, int, int64) ([]models.ChatMessage, error)
}

func (f *fakeChatRepo) CreateRoom(ctx context.Context, room *models.ChatRoom, participantIDs []int64) error {
	if f.createRoomFn != nil {
		return f.createRoomFn(ctx, room, participantIDs)
	}
	return nil
}
func (f *fakeChatRepo) FindRoom(ctx context.Context, roomID int64) (*models.ChatRoom, error) {
	if f.findRoomFn != nil {
		return f.findRoomFn(ctx, roomID)
	}
	return nil, nil
}
func (f *fakeChatRepo) ListRoomsForUser(ctx context.Context, userID int64) ([]models.ChatRoom, error) {
	if f.listRoomsForUserFn != nil {
		return f.listRoomsForUserFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeChatRepo) IsParticipant(ctx context.Context, roomID, userID int64) (bool, error) {
	if f.isParticipantFn != nil {
		return f.isParticipantFn(ctx, roomID, userID)
	}
	return false, nil
}
func (f *fakeChatRepo) Participants(ctx context.Context, roomID int64) ([]models.ChatParticipant, error) {
	if f.participantsFn != nil {
		return f.participantsFn(ctx, roomID)
	}
	return nil, nil
}
func (f *fakeChatRepo) PostMessage(ctx context.Context, roomID, senderID int64, content string) (*models.ChatMessage, error) {
	if f.postMessageFn != nil {
		return f.postMessageFn(ctx, roomID, senderID, content)
	}
	return &models.ChatMessage{}, nil
}
func (f *fakeChatRepo) MarkRoomRead(ctx context.Context, roomID, callerID int64) error {
	if f.markRoomReadFn != nil {
		return f.markRoomReadFn(ctx, roomID, callerID)
	}
	return nil
}
func (f *fakeChatRepo) ListMessagesBefore(ctx context.Context, roomID int64, limit int, before int64) ([]models.ChatMessage, error) {
	if f.listMessagesBeforeFn != nil {
		return f.listMessagesBeforeFn(ctx, roomID, limit, before)
	}
	return nil, nil
}

type fakeUserRepo struct {
	getByIDFn func(context.Context, int64) (*models.User, error)
}

func (f *fakeUserRepo) Create(context.Context, *models.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeUserRepo) GetByEmail(context.Context, string) (*models.User, error) { return nil, nil }
func (f *fakeUserRepo) List(context.Context, int, int) ([]*models.User, error)   { return nil, nil }
func (f *fakeUserRepo) Update(context.Context, *models.User) error               { return nil }
func (f *fakeUserRepo) Delete(context.Context, int64) error                      { return nil }
func (f *fakeUserRepo) UpdateRefresh(context.Context, int64, string, time.Time) error {
	return nil
}
func (f *fakeUserRepo) RotateRefresh(context.Context, string, string, time.Time) (*models.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByRefreshToken(context.Context, string) (*models.User, error) {
	return nil, nil
}

type fakeLinkRepo struct {
	chatIDForUserFn func(context.Context, int64) (int64, error)
}

func (f *fakeLinkRepo) Create(context.Context, int64, string, time.Duration) (*repositories.TelegramLink, error) {
	return nil, nil
}
func (f *fakeLinkRepo) UseByCode(context.Context, string) (*repositories.TelegramLink, error) {
	return nil, nil
}
func (f *fakeLinkRepo) BindChat(context.Context, int64, int64) error { return nil }
func (f *fakeLinkRepo) ChatIDForUser(ctx context.Context, userID int64) (int64, error) {
	if f.chatIDForUserFn != nil {
		return f.chatIDForUserFn(ctx, userID)
	}
	return 0, nil
}

type fakeEmailService struct {
	welcomeFn      func(email, name string) error
	taskAssignedFn func(email, taskTitle, boardName string) error
	taskUpdatedFn  func(email, taskTitle, boardName string) error
}

func (f *fakeEmailService) SendWelcomeEmail(email, name string) error {
	if f.welcomeFn != nil {
		return f.welcomeFn(email, name)
	}
	return nil
}
func (f *fakeEmailService) SendTaskAssignedEmail(email, taskTitle, boardName string) error {
	if f.taskAssignedFn != nil {
		return f.taskAssignedFn(email, taskTitle, boardName)
	}
	return nil
}
func (f *fakeEmailService) SendTaskUpdatedEmail(email, taskTitle, boardName string) error {
	if f.taskUpdatedFn != nil {
		return f.taskUpdatedFn(email, taskTitle, boardName)
	}
	return nil
}
