package services

var ResponseText = responseText
