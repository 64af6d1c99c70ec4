package handler

import (
	"naafe/internal/usecase"
)

var (
	userHandler         *UserHandler
	jobRequestHandler   *JobRequestHandler
	offerHandler        *OfferHandler
	conversationHandler *ConversationHandler
	notificationHandler *NotificationHandler
)

func Setup(
	userUseCase *usecase.UserUseCase,
	jobRequestUseCase *usecase.JobRequestUseCase,
	offerUseCase *usecase.OfferUseCase,
	conversationUseCase *usecase.ConversationUseCase,
	messageUseCase *usecase.MessageUseCase,
	notificationUseCase *usecase.NotificationUseCase,
) {
	userHandler = NewUserHandler(userUseCase)
	jobRequestHandler = NewJobRequestHandler(jobRequestUseCase)
	offerHandler = NewOfferHandler(offerUseCase)
	conversationHandler = NewConversationHandler(conversationUseCase, messageUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetJobRequestHandler() *JobRequestHandler {
	return jobRequestHandler
}

func GetOfferHandler() *OfferHandler {
	return offerHandler
}

func GetConversationHandler() *ConversationHandler {
	return conversationHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}
