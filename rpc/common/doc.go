// Package common provides the shared building blocks of the RPC layer: the
// wire Message structure with its factory functions, the server and client
// configuration structs, and the logging setup.
//
// Key Components:
//
//   - Message: A single structure used for both requests and responses of
//     every article operation. Operation payloads (create, update, article,
//     page) travel opaquely in the Value field, encoded by the article
//     serializer; the Message itself is encoded by the RPC serializer. Store
//     return codes cross the wire via the Code field so a remote client can
//     distinguish a missing article from a validation failure.
//
//   - ServerConfig / ClientConfig: Plain configuration structs filled in by
//     the cmd layer from flags, environment and .env files. Both provide a
//     formatted String method used when logging the effective configuration
//     at startup.
//
//   - Logging: A logger factory producing level-filtered loggers with a
//     uniform "LEVEL | pkg | msg" format, plus InitLoggers which installs
//     the factory and applies the configured level to all application
//     loggers.
package common
