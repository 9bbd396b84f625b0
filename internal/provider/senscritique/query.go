package senscritique

// Query 是一次 GraphQL 调用的固定文档（不可变值，由构造方注入 Client）。
type Query struct {
	OperationName string
	Document      string
}

// DefaultQuery 拉取用户“已评分”的收藏，并通过 otherUserInfos(username) 取该用户自己的评分/观看日期。
func DefaultQuery() Query {
	return Query{OperationName: collectionOperation, Document: collectionDocument}
}

const (
	collectionOperation = "UserCollection"
	collectionDocument  = `query UserCollection($username: String!, $universe: String!, $limit: Int!, $offset: Int!) {
  user(username: $username) {
    collection(universe: $universe, action: RATING, limit: $limit, offset: $offset) {
      total
      products {
        title
        yearOfProduction
        directors {
          name
        }
        otherUserInfos(username: $username) {
          rating
          dateDone
        }
      }
    }
  }
}
`
)
