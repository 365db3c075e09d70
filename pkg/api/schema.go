package api

// Schema схема BookVault API. Клиент проверяет по ней свои документы,
// тестовый endpoint исполняет их.
const Schema = `
schema {
	query: Query
	mutation: Mutation
}

type Book {
	id: ID!
	title: String!
	author: String!
	genre: String
	publishedYear: Int
}

type Query {
	books: [Book!]!
}

type Mutation {
	addBook(title: String!, author: String!, genre: String, publishedYear: Int): Book!
	deleteBook(id: ID!): Book
}
`
