// @title           DocChat API
// @version         1.0
// @description     Asynchronous document ingestion and retrieval-augmented chat.

// @contact.name    API Support

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package utils

//run redis
//docker run -p 6379:6379 -d redis

//run postgres with pgvector
//docker run -p 5432:5432 -e POSTGRES_USER=docchat -e POSTGRES_PASSWORD=docchat -e POSTGRES_DB=docchat -d pgvector/pgvector:pg17

//run qdrant
//docker run -p 6333:6333 -p 6334:6334 -v vectorDBData:/qdrant/storage qdrant/qdrant

//swagger init
//swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
