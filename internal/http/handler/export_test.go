package handler

var RespondServiceError = respondServiceError
