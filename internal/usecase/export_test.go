package usecase

var GenerateCode = generateCode
