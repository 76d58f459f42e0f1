package grammar

// computeNullable marks every rule that can match the empty string.
//
// This is a least fixpoint: every rule starts out non-nullable and is
// re-evaluated until nothing changes.
func computeNullable(nodes []node, rules []compiledRule) {
	for changed := true; changed; {
		changed = false
		for i := range rules {
			if !rules[i].nullable && nullable(nodes, rules, rules[i].body) {
				rules[i].nullable = true
				changed = true
			}
		}
	}
}

func nullable(nodes []node, rules []compiledRule, n int) bool {
	node := &nodes[n]
	switch node.kind {
	case literalNode:
		return node.text == ""
	case classNode:
		return false
	case ruleNode:
		return rules[node.rule].nullable
	case sequenceNode:
		for _, child := range node.children {
			if !nullable(nodes, rules, child) {
				return false
			}
		}
		return true
	case choiceNode:
		for _, child := range node.children {
			if nullable(nodes, rules, child) {
				return true
			}
		}
		return false
	case repeatNode:
		return node.min == 0 || nullable(nodes, rules, node.children[0])
	case lookNode:
		return true
	case metaNode:
		return false
	}
	panic("unsupported node " + node.kind.String())
}

// leftCalls returns the rules that rule r may invoke without first consuming
// any input, in the order they appear.
func leftCalls(nodes []node, rules []compiledRule, r int) []int {
	var out []int
	seen := map[int]bool{}
	var walk func(n int)
	walk = func(n int) {
		node := &nodes[n]
		switch node.kind {
		case literalNode, classNode, metaNode:
		case ruleNode:
			if !seen[node.rule] {
				seen[node.rule] = true
				out = append(out, node.rule)
			}
		case sequenceNode:
			for _, child := range node.children {
				walk(child)
				if !nullable(nodes, rules, child) {
					return
				}
			}
		case choiceNode:
			for _, child := range node.children {
				walk(child)
			}
		case repeatNode, lookNode:
			walk(node.children[0])
		}
	}
	walk(rules[r].body)
	return out
}

// leftRecursion finds rules that can reach themselves without consuming
// input. Each returned cycle starts and ends with the same rule index, and
// no rule appears in more than one reported cycle.
func leftRecursion(nodes []node, rules []compiledRule) [][]int {
	edges := make([][]int, len(rules))
	for r := range rules {
		edges[r] = leftCalls(nodes, rules, r)
	}
	var cycles [][]int
	reported := map[int]bool{}
	for r := range rules {
		if reported[r] {
			continue
		}
		path := cyclePath(edges, r)
		if path == nil {
			continue
		}
		for _, step := range path {
			reported[step] = true
		}
		cycles = append(cycles, path)
	}
	return cycles
}

// cyclePath returns a path from "from" back to itself found by depth first
// traversal, or nil.
func cyclePath(edges [][]int, from int) []int {
	visited := map[int]bool{}
	var path []int
	var dfs func(u int) bool
	dfs = func(u int) bool {
		path = append(path, u)
		for _, v := range edges[u] {
			if v == from {
				path = append(path, v)
				return true
			}
			if !visited[v] {
				visited[v] = true
				if dfs(v) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if dfs(from) {
		return path
	}
	return nil
}
