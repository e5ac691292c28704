// Package docs provides generated OpenAPI documentation.
//
// aisdk API
//
//	@title			aisdk API
//	@version		1.0
//	@description	Render prompt templates and generate text from them with configured language models.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/aisdk
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http
package docs

//go:generate swag init -g ../cmd/aisdk/serve.go -o ./swagger --parseDependency --parseInternal
